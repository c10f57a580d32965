package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one named JSON document stored as a row
type Document struct {
	Name      string    `gorm:"primarykey;type:varchar(100)"`
	Body      string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// PostgresStore keeps the document in a single row of the documents table
type PostgresStore struct {
	db   *gorm.DB
	name string
}

// NewPostgresStore returns a store for the document called name
func NewPostgresStore(db *gorm.DB, name string) *PostgresStore {
	return &PostgresStore{db: db, name: name}
}

// Init migrates the documents table and seeds an empty document
func (s *PostgresStore) Init(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Document{}); err != nil {
		return fmt.Errorf("%w: migrate documents: %v", ErrUnavailable, err)
	}
	seed := Document{Name: s.name, Body: string(EmptyDocument), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&seed).Error
	if err != nil {
		return fmt.Errorf("%w: seed document %s: %v", ErrUnavailable, s.name, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var doc Document
	err := s.db.WithContext(ctx).Where("name = ?", s.name).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return EmptyDocument, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load document %s: %v", ErrUnavailable, s.name, err)
	}
	return []byte(doc.Body), nil
}

func (s *PostgresStore) Save(ctx context.Context, data []byte) error {
	doc := Document{Name: s.name, Body: string(data), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&doc).Error
	if err != nil {
		return fmt.Errorf("%w: save document %s: %v", ErrUnavailable, s.name, err)
	}
	return nil
}

func (s *PostgresStore) Driver() string {
	return "postgres"
}
