package dataset

import (
	"context"
	"database/sql"
	"time"

	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/models"
)

const listingsQuery = `
	SELECT id, url, title, description, price_km, condition, listing_type,
	       property_type, rooms, size_m2, furnished, floor, heating_type,
	       location, address, bathrooms, year_built, has_balcony, has_garage,
	       has_parking, has_elevator, is_registered, has_armored_door
	FROM listings
	ORDER BY id`

// PostgresSource reads the listings table.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Load(ctx context.Context) ([]models.RawListing, error) {
	rows, err := s.db.QueryContext(ctx, listingsQuery)
	if err != nil {
		return nil, apperrors.NewDataSourceError(s.Name(), err)
	}
	defer rows.Close()

	var out []models.RawListing
	for rows.Next() {
		var (
			l                                                   models.RawListing
			url, title, desc, cond, listingType, propertyType   sql.NullString
			rooms, furnished, floor, heating, location, address sql.NullString
			bathrooms, yearBuilt                                sql.NullString
			price, size                                         sql.NullFloat64
			balcony, garage, parking, elevator, registered      sql.NullBool
			armoredDoor                                         sql.NullBool
		)
		if err := rows.Scan(
			&l.ID, &url, &title, &desc, &price, &cond, &listingType,
			&propertyType, &rooms, &size, &furnished, &floor, &heating,
			&location, &address, &bathrooms, &yearBuilt, &balcony, &garage,
			&parking, &elevator, &registered, &armoredDoor,
		); err != nil {
			return nil, apperrors.NewDataSourceError(s.Name(), err)
		}
		l.URL, l.Title, l.Description = url.String, title.String, desc.String
		l.Condition, l.ListingType, l.PropertyType = cond.String, listingType.String, propertyType.String
		l.Rooms, l.Furnished, l.Floor = rooms.String, furnished.String, floor.String
		l.HeatingType, l.Location, l.Address = heating.String, location.String, address.String
		l.Bathrooms, l.YearBuilt = bathrooms.String, yearBuilt.String
		l.PriceKM, l.SizeM2 = nullableFloat(price), nullableFloat(size)
		l.HasBalcony, l.HasGarage, l.HasParking = balcony.Bool, garage.Bool, parking.Bool
		l.HasElevator, l.IsRegistered, l.HasArmoredDoor = elevator.Bool, registered.Bool, armoredDoor.Bool
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDataSourceError(s.Name(), err)
	}
	return out, nil
}

func nullableFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// TrainingRun is one row of the training_runs table.
type TrainingRun struct {
	Version     string
	RecordsIn   int
	RecordsUsed int
	CVR2        float64
	TestR2      float64
	TestMAE     float64
	TestRMSE    float64
	CreatedAt   time.Time
}

const createTrainingRunsTable = `
	CREATE TABLE IF NOT EXISTS training_runs (
		version      UUID PRIMARY KEY,
		records_in   INTEGER NOT NULL,
		records_used INTEGER NOT NULL,
		cv_r2        DOUBLE PRECISION NOT NULL,
		test_r2      DOUBLE PRECISION NOT NULL,
		test_mae     DOUBLE PRECISION NOT NULL,
		test_rmse    DOUBLE PRECISION NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL
	)`

const insertTrainingRun = `
	INSERT INTO training_runs
		(version, records_in, records_used, cv_r2, test_r2, test_mae, test_rmse, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// RunRecorder appends finished training runs to training_runs.
type RunRecorder struct {
	db *sql.DB
}

func NewRunRecorder(db *sql.DB) *RunRecorder {
	return &RunRecorder{db: db}
}

func (r *RunRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTrainingRunsTable); err != nil {
		return apperrors.NewDataSourceError("postgres", err)
	}
	return nil
}

func (r *RunRecorder) Record(ctx context.Context, run TrainingRun) error {
	_, err := r.db.ExecContext(ctx, insertTrainingRun,
		run.Version, run.RecordsIn, run.RecordsUsed,
		run.CVR2, run.TestR2, run.TestMAE, run.TestRMSE, run.CreatedAt,
	)
	if err != nil {
		return apperrors.NewDataSourceError("postgres", err)
	}
	return nil
}
