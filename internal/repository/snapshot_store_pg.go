package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sidvishnoi/respec-github-apis/internal/model"
)

type pgSnapshotStore struct {
	db *gorm.DB
}

func NewPGSnapshotStore(db *gorm.DB) SnapshotStore {
	return &pgSnapshotStore{db: db}
}

func (r *pgSnapshotStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	var snapshot model.CacheSnapshot
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snapshot.Data, nil
}

func (r *pgSnapshotStore) Write(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&model.CacheSnapshot{Name: name, Data: data}).
		Error
}
