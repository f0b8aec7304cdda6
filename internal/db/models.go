package db

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingRecord maps staffing.postings. Rows are write-once: the conditional
// insert never updates an existing row.
type PostingRecord struct {
	PostingID    string           `gorm:"column:posting_id;type:char(64);primaryKey"`
	Source       string           `gorm:"column:source;type:text;not null"`
	Title        string           `gorm:"column:title;type:text;not null;default:''"`
	Company      *string          `gorm:"column:company;type:text"`
	City         *string          `gorm:"column:city;type:text"`
	Country      *string          `gorm:"column:country;type:text"`
	Location     string           `gorm:"column:location;type:text;not null;default:''"`
	Description  string           `gorm:"column:description;type:text;not null;default:''"`
	ApplyURL     *string          `gorm:"column:apply_url;type:text"`
	SalaryMin    *decimal.Decimal `gorm:"column:salary_min;type:numeric"`
	SalaryMax    *decimal.Decimal `gorm:"column:salary_max;type:numeric"`
	Lat          *decimal.Decimal `gorm:"column:lat;type:numeric"`
	Lng          *decimal.Decimal `gorm:"column:lng;type:numeric"`
	QualityScore int              `gorm:"column:quality_score;type:integer;not null;default:0"`
	CreatedAt    time.Time        `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (PostingRecord) TableName() string { return "staffing.postings" }

// CandidateRecord maps staffing.candidates. The role column is always the
// server-side baseline; requested_role carries the caller's intent.
type CandidateRecord struct {
	CandidateID   string    `gorm:"column:candidate_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName      string    `gorm:"column:full_name;type:text;not null"`
	Email         string    `gorm:"column:email;type:text;not null"`
	ResumeText    string    `gorm:"column:resume_text;type:text;not null"`
	Role          string    `gorm:"column:role;type:text;not null;default:candidate"`
	RequestedRole string    `gorm:"column:requested_role;type:text;not null;default:candidate"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (CandidateRecord) TableName() string { return "staffing.candidates" }

// MatchScoreRecord maps staffing.match_scores, one row per
// (posting_id, candidate_id) pair.
type MatchScoreRecord struct {
	PostingID   string    `gorm:"column:posting_id;type:text;primaryKey"`
	CandidateID string    `gorm:"column:candidate_id;type:uuid;primaryKey"`
	Score       float64   `gorm:"column:score;type:double precision;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (MatchScoreRecord) TableName() string { return "staffing.match_scores" }

func autoMigrateModels() []any {
	return []any{
		&PostingRecord{},
		&CandidateRecord{},
		&MatchScoreRecord{},
	}
}
