package features

import (
	"apartment-estimator/internal/models"
	"apartment-estimator/internal/pipeline/normalize"
)

// FeatureAssembler is the single derivation contract shared by the training
// batch and the estimate endpoint.
type FeatureAssembler interface {
	FromScrapedRecord(rec models.RawListing) (*Vector, error)
	FromUserForm(req models.EstimateRequest) (*Vector, error)
}

var _ FeatureAssembler = (*Assembler)(nil)

// FromScrapedRecord normalizes the free-text attributes of a scraped listing
// and assembles it. The description is always treated as present.
func (a *Assembler) FromScrapedRecord(rec models.RawListing) (*Vector, error) {
	desc := rec.Description
	l := Listing{
		Location:       rec.Location,
		SizeM2:         optional(rec.SizeM2),
		YearBuilt:      rec.YearBuilt,
		Condition:      conditionCategory(rec.Condition),
		Furnished:      furnishedCategory(rec.Furnished),
		Heating:        heatingCategory(rec.HeatingType),
		HasElevator:    rec.HasElevator,
		HasParking:     rec.HasParking,
		HasBalcony:     rec.HasBalcony,
		IsRegistered:   rec.IsRegistered,
		HasArmoredDoor: rec.HasArmoredDoor,
		Description:    &desc,
	}
	if v, ok := normalize.CleanRooms(rec.Rooms, a.rep); ok {
		l.Rooms = Some(v)
	}
	if v, ok := normalize.CleanFloor(rec.Floor, a.rep); ok {
		l.Floor = Some(float64(v))
	}
	if v, ok := normalize.ParseCount(rec.Bathrooms, normalize.FieldBathrooms, a.rep); ok {
		l.Bathrooms = Some(v)
	}
	return a.Assemble(l)
}

// FromUserForm assembles a validated estimate form. Without a description
// the keyword indicators come from the declared condition, garage and view
// flags, and desc_len takes the placeholder; those fields are listed in
// Vector.Approximated.
func (a *Assembler) FromUserForm(req models.EstimateRequest) (*Vector, error) {
	loc := req.Location
	if canonical, ok := models.CanonicalLocation(loc); ok {
		loc = canonical
	}
	cond, condOK := models.ParseCondition(req.Condition)

	l := Listing{
		Location:       loc,
		SizeM2:         Some(req.SizeM2),
		Rooms:          Some(req.Rooms),
		Floor:          Some(float64(req.Floor)),
		Bathrooms:      Some(float64(req.BathroomCount())),
		YearBuilt:      req.YearBuilt,
		Condition:      conditionCategory(req.Condition),
		Furnished:      furnishedCategory(req.Furnished),
		Heating:        heatingCategory(req.HeatingType),
		HasElevator:    req.HasElevator,
		HasParking:     req.HasParking,
		HasBalcony:     req.HasBalcony,
		IsRegistered:   req.Registered(),
		HasArmoredDoor: req.HasArmoredDoor,
		Description:    req.Description,
		Declared: TextFlags{
			Renovated: condOK && (cond == models.ConditionRenovated || cond == models.ConditionNewBuild),
			NewBuild:  condOK && cond == models.ConditionNewBuild,
			Garage:    req.HasGarage,
			View:      req.HasView != nil && *req.HasView,
		},
	}
	return a.Assemble(l)
}

func optional(p *float64) Number {
	if p == nil {
		return Missing
	}
	return Some(*p)
}

func conditionCategory(s string) Category {
	c, ok := models.ParseCondition(s)
	if !ok {
		return Category{}
	}
	return Label(string(c))
}

func furnishedCategory(s string) Category {
	f, ok := models.ParseFurnished(s)
	if !ok {
		return Category{}
	}
	return Label(string(f))
}

func heatingCategory(s string) Category {
	h, ok := models.ParseHeating(s)
	if !ok {
		return Category{}
	}
	return Label(string(h))
}
