package models

import "github.com/jinzhu/gorm"

// A Result records what happened to one image of a batch
type Result struct {
	gorm.Model
	BatchID string `gorm:"index"`
	Path    string
	Status  string
	Reason  string
	Width   int
	Height  int
	Subject int
	Min     int
	Max     int
}

// Create creates a new result in the DB
func (r *Result) Create(db *gorm.DB) error {
	return db.Create(r).Error
}

// ListResults returns all results from given batch
func ListResults(db *gorm.DB, batchID string) (results []Result, err error) {
	err = db.Where("batch_id = ?", batchID).Order("path").Find(&results).Error
	return
}

// FindResults returns the history of an image, most recent first
func FindResults(db *gorm.DB, path string) (results []Result, err error) {
	err = db.Where("path = ?", path).Order("created_at desc").Find(&results).Error
	return
}

// ListPaths returns every image path found in the history
func ListPaths(db *gorm.DB) (paths []string, err error) {
	err = db.Model(&Result{}).Order("path").Pluck("DISTINCT path", &paths).Error
	return
}
