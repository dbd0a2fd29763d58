package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dripguard/dripguard/server/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// AssessmentRecord is one persisted per-sample assessment, keyed to the
// patient it was scored for.
type AssessmentRecord struct {
	ID             string         `json:"id"`
	PatientID      string         `json:"patient_id"`
	FlowRate       float64        `json:"flow_rate"`
	TissuePressure float64        `json:"tissue_pressure"`
	Temperature    float64        `json:"temperature"`
	RiskScore      int            `json:"risk_score"`
	RiskLevel      model.Level    `json:"risk_level"`
	Confidence     int            `json:"confidence"`
	Reason         string         `json:"reason"`
	CreatedAt      time.Time      `json:"created_at"`
}

// PatientDefaults seeds the patient record created lazily on the first valid
// sample when no patient exists yet.
type PatientDefaults struct {
	Name           string
	Age            int
	BaselineFlow   float64
	BaselineTissue float64
}

// Store is the PostgreSQL-backed durable record store.
type Store struct {
	pool *pgxpool.Pool
}

// New opens a connection pool against dsn and verifies connectivity.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist yet.
// The patients table carries a constant-valued primary key so the deployment
// can never hold more than one active patient row.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS patients (
			singleton       boolean PRIMARY KEY DEFAULT true CHECK (singleton),
			id              uuid NOT NULL,
			name            text NOT NULL,
			age             integer NOT NULL,
			baseline_flow   double precision NOT NULL,
			baseline_tissue double precision NOT NULL,
			created_at      timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS assessments (
			id              uuid PRIMARY KEY,
			patient_id      uuid NOT NULL,
			flow_rate       double precision NOT NULL,
			tissue_pressure double precision NOT NULL,
			temperature     double precision NOT NULL,
			risk_score      integer NOT NULL,
			risk_level      text NOT NULL,
			confidence      integer NOT NULL,
			reason          text NOT NULL,
			created_at      timestamptz NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS alerts (
			id         uuid PRIMARY KEY,
			patient_id uuid NOT NULL,
			severity   text NOT NULL,
			message    text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

// GetOrCreatePatient resolves the single active patient, creating it from
// defaults when absent. Race policy: first writer wins — concurrent creators
// collide on the constant primary key, the losing insert is a no-op, and the
// follow-up select returns whatever the winner wrote.
func (s *Store) GetOrCreatePatient(ctx context.Context, defaults PatientDefaults) (model.Patient, error) {
	p, err := s.getPatient(ctx)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.Patient{}, err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO patients (id, name, age, baseline_flow, baseline_tissue)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (singleton) DO NOTHING`,
		uuid.NewString(), defaults.Name, defaults.Age, defaults.BaselineFlow, defaults.BaselineTissue)
	if err != nil {
		return model.Patient{}, fmt.Errorf("store: create patient: %w", err)
	}

	return s.getPatient(ctx)
}

func (s *Store) getPatient(ctx context.Context) (model.Patient, error) {
	var p model.Patient
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, age, baseline_flow, baseline_tissue, created_at
		FROM patients`).Scan(&p.ID, &p.Name, &p.Age, &p.Baseline.Flow, &p.Baseline.Tissue, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Patient{}, ErrNotFound
	}
	if err != nil {
		return model.Patient{}, fmt.Errorf("store: get patient: %w", err)
	}
	return p, nil
}

// InsertAssessment appends one per-sample assessment record.
// A zero rec.ID is filled with a fresh UUID.
func (s *Store) InsertAssessment(ctx context.Context, rec AssessmentRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO assessments
			(id, patient_id, flow_rate, tissue_pressure, temperature,
			 risk_score, risk_level, confidence, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.PatientID, rec.FlowRate, rec.TissuePressure, rec.Temperature,
		rec.RiskScore, string(rec.RiskLevel), rec.Confidence, rec.Reason)
	if err != nil {
		return fmt.Errorf("store: insert assessment: %w", err)
	}
	return nil
}

// InsertAlert appends one alert record. A zero a.ID is filled with a fresh UUID.
func (s *Store) InsertAlert(ctx context.Context, a model.Alert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO alerts (id, patient_id, severity, message)
		VALUES ($1, $2, $3, $4)`,
		a.ID, a.PatientID, a.Severity, a.Message)
	if err != nil {
		return fmt.Errorf("store: insert alert: %w", err)
	}
	return nil
}

// RecentAlerts returns up to limit alerts, newest first.
func (s *Store) RecentAlerts(ctx context.Context, limit int) ([]model.Alert, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, patient_id, severity, message, created_at
		FROM alerts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list alerts: %w", err)
	}
	defer rows.Close()

	alerts := []model.Alert{}
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.ID, &a.PatientID, &a.Severity, &a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// RecentAssessments returns up to limit assessment records, newest first.
func (s *Store) RecentAssessments(ctx context.Context, limit int) ([]AssessmentRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, patient_id, flow_rate, tissue_pressure, temperature,
		       risk_score, risk_level, confidence, reason, created_at
		FROM assessments ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list assessments: %w", err)
	}
	defer rows.Close()

	recs := []AssessmentRecord{}
	for rows.Next() {
		var rec AssessmentRecord
		var level string
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.FlowRate, &rec.TissuePressure,
			&rec.Temperature, &rec.RiskScore, &level, &rec.Confidence, &rec.Reason,
			&rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan assessment: %w", err)
		}
		rec.RiskLevel = model.Level(level)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
