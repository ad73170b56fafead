package patient

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	CreateWithFiles(ctx context.Context, p *Patient, files []FileRecord) error
	ExistsByCRN(ctx context.Context, crn string) (bool, error)
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Search(ctx context.Context, column, term string) ([]Patient, error)
	GetFileByID(ctx context.Context, id int64) (*FileRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateWithFiles inserts the patient and its file records in one
// transaction, so a failed insert leaves no partial rows behind.
func (r *repository) CreateWithFiles(ctx context.Context, p *Patient, files []FileRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		for i := range files {
			files[i].PatientID = p.ID
		}
		if len(files) > 0 {
			if err := tx.Create(&files).Error; err != nil {
				return err
			}
		}
		p.Files = files
		return nil
	})
}

func (r *repository) ExistsByCRN(ctx context.Context, crn string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Patient{}).Where("crn = ?", crn).Count(&count).Error
	return count > 0, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	var p Patient
	err := r.db.WithContext(ctx).Preload("Files").Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Search runs a substring match on one of the fixed search columns. The
// column name comes from the service's whitelist, never from user input.
func (r *repository) Search(ctx context.Context, column, term string) ([]Patient, error) {
	var patients []Patient
	err := r.db.WithContext(ctx).
		Preload("Files").
		Where(column+" LIKE ?", "%"+term+"%").
		Order("created_at DESC").
		Find(&patients).Error
	return patients, err
}

func (r *repository) GetFileByID(ctx context.Context, id int64) (*FileRecord, error) {
	var f FileRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}
