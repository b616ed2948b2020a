package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
)

// A Batch is one run over a folder of headshots.
type Batch struct {
	ID       string `gorm:"primary_key"`
	Root     string
	Started  time.Time
	Finished time.Time
	Saved    int
	Skipped  int
}

func (b Batch) String() string {
	return fmt.Sprintf("Batch{id=%v, root=%v, saved=%d, skipped=%d}", b.ID, b.Root, b.Saved, b.Skipped)
}

// BeforeSave is executed just before a Batch is saved into the DB
func (b *Batch) BeforeSave() error {
	if b.ID == "" {
		return errors.New("missing batch ID")
	}
	if b.Root == "" {
		return errors.New("batch root can't be empty")
	}
	return nil
}

// Save creates or updates the batch in the DB
func (b *Batch) Save(db *gorm.DB) error {
	return db.Save(b).Error
}

// NewBatchID returns an identifier for a batch starting at t.
func NewBatchID(t time.Time) string {
	return t.UTC().Format("20060102T150405.000Z")
}

// ListBatches returns the most recent batches first
func ListBatches(db *gorm.DB, limit int) (batches []Batch, err error) {
	err = db.Order("started desc").Limit(limit).Find(&batches).Error
	return
}

// LastBatch returns the most recent batch
func LastBatch(db *gorm.DB) (Batch, error) {
	b := Batch{}
	err := db.Order("started desc").First(&b).Error
	return b, err
}
