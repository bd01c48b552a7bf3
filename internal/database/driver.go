// Package database loads survey snapshots from the record store. Each backend
// reads the households and individuals tables (or collections) in full.
package database

import (
	"context"
	"fmt"

	"hdss-monitor/internal/config"
	"hdss-monitor/internal/survey"
)

type Row interface {
	Scan(dest ...interface{}) error
}

type DatabaseDriver interface {
	Connect(dsn string) error
	Close() error
	// Setup creates the tables if they do not exist.
	Setup(ctx context.Context) error
	// Reset drops the survey tables.
	Reset(ctx context.Context) error
	Load(ctx context.Context) (*survey.Snapshot, error)
	Seed(ctx context.Context, snap *survey.Snapshot) error
}

// NewDriver returns an unconnected driver for the configured backend.
func NewDriver(cfg config.Source) (DatabaseDriver, error) {
	switch cfg.Driver {
	case "postgres":
		return &PostgresDriver{}, nil
	case "mysql":
		return &MySQLDriver{}, nil
	case "mongo":
		return &MongoDriver{Database: cfg.Database}, nil
	case "memory":
		return &MemoryDriver{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Driver)
	}
}

func scanHousehold(row Row) (survey.Household, error) {
	var h survey.Household
	err := row.Scan(
		&h.Key, &h.Site, &h.District, &h.LLG, &h.Ward, &h.Village,
		&h.LocationNumber, &h.DwellingNumber, &h.Sector,
		&h.Submitter, &h.Collector, &h.QualityOfficer, &h.Outcome,
		&h.HouseholdGPS.Latitude, &h.HouseholdGPS.Longitude, &h.HouseholdGPS.Altitude, &h.HouseholdGPS.Accuracy,
		&h.WaterGPS.Latitude, &h.WaterGPS.Longitude, &h.WaterGPS.Altitude, &h.WaterGPS.Accuracy,
		&h.ToiletGPS.Latitude, &h.ToiletGPS.Longitude, &h.ToiletGPS.Altitude, &h.ToiletGPS.Accuracy,
		&h.RespondentName, &h.RespondentRelationship, &h.TotalMembers,
		&h.Consent, &h.DeathConsent, &h.Deaths,
		&h.InterviewedAt, &h.SubmittedAt,
	)
	return h, err
}

func scanIndividual(row Row) (survey.Individual, error) {
	var ind survey.Individual
	err := row.Scan(
		&ind.Key, &ind.ParentKey, &ind.FirstName, &ind.LastName, &ind.Sex,
		&ind.LineNumber, &ind.Relationship, &ind.AgeCategory, &ind.Age, &ind.MaritalStatus,
	)
	return ind, err
}

// householdValues is one insert row in householdColumns order. Consent flags
// are stored as 1 or NULL since the loaders only test for presence.
func householdValues(h *survey.Household) []interface{} {
	return []interface{}{
		h.Key, h.Site, h.District, h.LLG, h.Ward, h.Village,
		h.LocationNumber, h.DwellingNumber, h.Sector,
		h.Submitter, h.Collector, h.QualityOfficer, h.Outcome,
		h.HouseholdGPS.Latitude, h.HouseholdGPS.Longitude, h.HouseholdGPS.Altitude, h.HouseholdGPS.Accuracy,
		h.WaterGPS.Latitude, h.WaterGPS.Longitude, h.WaterGPS.Altitude, h.WaterGPS.Accuracy,
		h.ToiletGPS.Latitude, h.ToiletGPS.Longitude, h.ToiletGPS.Altitude, h.ToiletGPS.Accuracy,
		h.RespondentName, h.RespondentRelationship, h.TotalMembers,
		flag(h.Consent), flag(h.DeathConsent), h.Deaths,
		h.InterviewedAt, h.SubmittedAt,
	}
}

func individualValues(ind *survey.Individual) []interface{} {
	return []interface{}{
		ind.Key, ind.ParentKey, ind.FirstName, ind.LastName, ind.Sex,
		ind.LineNumber, ind.Relationship, ind.AgeCategory, ind.Age, ind.MaritalStatus,
	}
}

func flag(set bool) *int {
	if !set {
		return nil
	}
	one := 1
	return &one
}

func columnList(columns []string, quotedKey string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = dialect(c, quotedKey)
	}
	return out
}
