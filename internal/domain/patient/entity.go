package patient

import "time"

// Patient is one clinical record, identified externally by its clinic
// reference number (CRN).
type Patient struct {
	ID          int64        `gorm:"column:id;primaryKey" json:"id"`
	CRN         string       `gorm:"column:crn;uniqueIndex" json:"crn"`
	UHID        string       `gorm:"column:uhid;index" json:"uhid"`
	PatientName string       `gorm:"column:patient_name" json:"patient_name"`
	DOB         string       `gorm:"column:dob" json:"dob"`
	CreatedAt   time.Time    `gorm:"column:created_at" json:"created_at"`
	Files       []FileRecord `gorm:"foreignKey:PatientID" json:"files,omitempty"`
}

func (Patient) TableName() string { return "patients" }

// FileRecord is the metadata for one attached blob. Filepath always points
// at the gzip-compressed object; the decompressed form is never persisted.
type FileRecord struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id"`
	PatientID  int64     `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Filename   string    `gorm:"column:filename" json:"filename"`
	Filepath   string    `gorm:"column:filepath" json:"-"`
	FileSize   int64     `gorm:"column:file_size" json:"file_size"`
	UploadDate time.Time `gorm:"column:upload_date" json:"upload_date"`
}

func (FileRecord) TableName() string { return "file_records" }
