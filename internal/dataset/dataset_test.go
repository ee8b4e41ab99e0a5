package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "apartment-estimator/internal/common/errors"
)

const sampleCSV = "\ufeffid,url,title,price_km,location,size_m2,rooms,floor,bathrooms,year_built,condition,furnished,heating_type,has_balcony,has_garage,has_parking,has_elevator,is_registered,has_armored_door,has_alarm,description\n" +
	"1,https://x/1,Stan,185000.0,Sarajevo - Centar,62.0,3.0,2.0,1.0,2000 do 2009,Renoviran,Namješten,Centralno (gradsko),True,False,False,True,True,False,True,\"Renoviran stan, pogled\"\n" +
	"2,https://x/2,Stan,,Tuzla,48.5,Dvosoban,Prizemlje,,,,,,False,False,True,False,False,False,False,\n"

func TestReadCSV(t *testing.T) {
	listings, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, int64(1), first.ID)
	require.NotNil(t, first.PriceKM)
	assert.Equal(t, 185000.0, *first.PriceKM)
	assert.Equal(t, 62.0, *first.SizeM2)
	assert.Equal(t, "Sarajevo - Centar", first.Location)
	assert.Equal(t, "3.0", first.Rooms)
	assert.Equal(t, "2000 do 2009", first.YearBuilt)
	assert.True(t, first.HasBalcony)
	assert.False(t, first.HasGarage)
	assert.True(t, first.IsRegistered)
	assert.Equal(t, "Renoviran stan, pogled", first.Description)

	second := listings[1]
	assert.Nil(t, second.PriceKM)
	assert.Equal(t, "", second.Bathrooms)
	assert.Equal(t, "Prizemlje", second.Floor)
	assert.True(t, second.HasParking)
}

func TestReadCSVRequiresColumns(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("id,title\n1,x\n"))
	assert.Error(t, err)
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDataSourceError))
}

func TestCSVSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	listings, err := NewCSVSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, listings, 2)
}

var listingColumns = []string{
	"id", "url", "title", "description", "price_km", "condition", "listing_type",
	"property_type", "rooms", "size_m2", "furnished", "floor", "heating_type",
	"location", "address", "bathrooms", "year_built", "has_balcony", "has_garage",
	"has_parking", "has_elevator", "is_registered", "has_armored_door",
}

func TestPostgresSource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(listingColumns).
		AddRow(7, "https://x/7", "Stan", "opis", 150000.0, "Novogradnja", "Prodaja",
			"Stan", "Dvosoban (2)", 55.0, "Nenamješten", "3", "Plin",
			"Mostar", nil, "1", "2020+", true, true, false, true, true, false).
		AddRow(8, nil, nil, nil, nil, nil, nil,
			nil, nil, nil, nil, nil, nil,
			"Zenica", nil, nil, nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery("SELECT id, url, title").WillReturnRows(rows)

	listings, err := NewPostgresSource(db).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, int64(7), listings[0].ID)
	assert.Equal(t, 150000.0, *listings[0].PriceKM)
	assert.Equal(t, "Dvosoban (2)", listings[0].Rooms)
	assert.True(t, listings[0].HasGarage)
	assert.Equal(t, "", listings[0].Address)

	assert.Nil(t, listings[1].PriceKM)
	assert.Nil(t, listings[1].SizeM2)
	assert.Equal(t, "Zenica", listings[1].Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourceQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id").WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresSource(db).Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDataSourceError))
}

func TestRunRecorder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS training_runs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO training_runs").
		WithArgs("6f1c1f38-8a0e-4d42-9a55-3a1b8c0f2d11", 1000, 870, 0.81, 0.79, 21000.5, 35000.25, created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := NewRunRecorder(db)
	require.NoError(t, rec.EnsureSchema(context.Background()))
	require.NoError(t, rec.Record(context.Background(), TrainingRun{
		Version:     "6f1c1f38-8a0e-4d42-9a55-3a1b8c0f2d11",
		RecordsIn:   1000,
		RecordsUsed: 870,
		CVR2:        0.81,
		TestR2:      0.79,
		TestMAE:     21000.5,
		TestRMSE:    35000.25,
		CreatedAt:   created,
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newElasticServer(t *testing.T, pages ...string) (*httptest.Server, *[]map[string]interface{}) {
	t.Helper()
	var bodies []map[string]interface{}
	call := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		bodies = append(bodies, body)
		if call >= len(pages) {
			_, _ = w.Write([]byte(`{"hits":{"hits":[]}}`))
			return
		}
		_, _ = w.Write([]byte(pages[call]))
		call++
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func TestElasticsearchSourcePages(t *testing.T) {
	srv, bodies := newElasticServer(t,
		`{"hits":{"hits":[
			{"_source":{"id":1,"location":"Sarajevo","price_km":100000,"size_m2":50,"rooms":"Dvosoban (2)"},"sort":[1]},
			{"_source":{"id":2,"location":"Tuzla","price_km":80000,"size_m2":45},"sort":[2]}
		]}}`,
		`{"hits":{"hits":[
			{"_source":{"id":3,"location":"Mostar","has_garage":true},"sort":[3]}
		]}}`,
	)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	listings, err := NewElasticsearchSource(client, "listings", 2).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 3)
	assert.Equal(t, "Dvosoban (2)", listings[0].Rooms)
	assert.Equal(t, 100000.0, *listings[0].PriceKM)
	assert.True(t, listings[2].HasGarage)
	assert.Nil(t, listings[2].PriceKM)

	require.Len(t, *bodies, 2)
	assert.Nil(t, (*bodies)[0]["search_after"])
	assert.Equal(t, []interface{}{2.0}, (*bodies)[1]["search_after"])
	assert.Equal(t, 2.0, (*bodies)[0]["size"])
}

func TestElasticsearchSourceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}, MaxRetries: 0, DisableRetry: true})
	require.NoError(t, err)

	_, err = NewElasticsearchSource(client, "listings", 10).Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDataSourceError))
}
