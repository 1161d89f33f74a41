package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	DefaultUserRole            = "USER"
	DefaultNotificationChannel = "Email"
)

type User struct {
	ID                 string    `db:"id"`
	InternalID         *int64    `db:"internal_id"`
	FirstName          *string   `db:"first_name"`
	LastName           *string   `db:"last_name"`
	Email              string    `db:"email"`
	Phone              *string   `db:"phone"`
	HashedPassword     *string   `db:"hashed_password"`
	Role               string    `db:"role"`
	IsSuperAdmin       bool      `db:"is_super_admin"`
	IsEmailVerified    bool      `db:"is_email_verified"`
	IsDeveloper        bool      `db:"is_developer"`
	Restricted         bool      `db:"restricted"`
	PreferredLocale    *string   `db:"preferred_locale"`
	Title              *string   `db:"title"`
	Institute          *string   `db:"institute"`
	Department         *string   `db:"department"`
	AddressLine1       *string   `db:"address_line_1"`
	AddressHouseNumber *string   `db:"address_house_number"`
	AddressLine2       *string   `db:"address_line_2"`
	AddressCity        *string   `db:"address_city"`
	AddressPostCode    *string   `db:"address_post_code"`
	AddressCountry     *string   `db:"address_country"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type Session struct {
	ID                 string    `db:"id"`
	Handle             string    `db:"handle"`
	HashedSessionToken *string   `db:"hashed_session_token"`
	AntiCSRFToken      *string   `db:"anti_csrf_token"`
	PublicData         *string   `db:"public_data"`
	PrivateData        *string   `db:"private_data"`
	UserID             *string   `db:"user_id"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type Token struct {
	ID          string    `db:"id"`
	HashedToken string    `db:"hashed_token"`
	TokenType   string    `db:"token_type"`
	Note        *string   `db:"note"`
	Disabled    bool      `db:"disabled"`
	ExpiresAt   time.Time `db:"expires_at"`
	SentTo      string    `db:"sent_to"`
	UserID      string    `db:"user_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type ApiAccessLog struct {
	ID        string             `db:"id"`
	TokenID   string             `db:"token_id"`
	Action    string             `db:"action"`
	Success   bool               `db:"success"`
	Comment   *string            `db:"comment"`
	Data      types.NullJSONText `db:"data"`
	CreatedAt time.Time          `db:"created_at"`
	UpdatedAt time.Time          `db:"updated_at"`
}

// Event is an audit record. SubjectID is kept as a plain value so the
// history survives deletion of the subject.
type Event struct {
	ID        string             `db:"id"`
	Type      EventType          `db:"type"`
	EventTime time.Time          `db:"event_time"`
	Comment   *string            `db:"comment"`
	Data      types.NullJSONText `db:"data"`
	SubjectID *string            `db:"subject_id"`
	UserID    *string            `db:"user_id"`
	CreatedAt time.Time          `db:"created_at"`
	UpdatedAt time.Time          `db:"updated_at"`
}

type Organisation struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type OfficeUnit struct {
	ID                 string    `db:"id"`
	Name               string    `db:"name"`
	AddressLine1       string    `db:"address_line_1"`
	AddressHouseNumber *string   `db:"address_house_number"`
	AddressLine2       *string   `db:"address_line_2"`
	AddressCity        string    `db:"address_city"`
	AddressPostCode    string    `db:"address_post_code"`
	AddressCountry     string    `db:"address_country"`
	OrganisationID     string    `db:"organisation_id"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type NotificationPreference struct {
	ID                 string    `db:"id"`
	UserID             string    `db:"user_id"`
	NewReportAvailable string    `db:"new_report_available"`
	NewSampleEvent     string    `db:"new_sample_event"`
	SubjectFileUpload  string    `db:"subject_file_upload"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type Subject struct {
	ID            string        `db:"id"`
	InternalID    int64         `db:"internal_id"`
	VersionNumber int           `db:"version_number"`
	UserID        string        `db:"user_id"`
	OfficeUnitID  *string       `db:"office_unit_id"`
	Status        SubjectStatus `db:"status"`
	WizardStep    WizardStep    `db:"wizard_step"`
	FirstName     *string       `db:"first_name"`
	LastName      *string       `db:"last_name"`
	Email         *string       `db:"email"`
	Phone         *string       `db:"phone"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type SubjectFile struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Size       int64     `db:"size"`
	SubjectID  string    `db:"subject_id"`
	IsPedigree bool      `db:"is_pedigree"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type Order struct {
	ID              string    `db:"id"`
	ArcensusOrderID int64     `db:"arcensus_order_id"`
	SubjectID       string    `db:"subject_id"`
	ProductID       string    `db:"product_id"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type Sample struct {
	ID        string    `db:"id"`
	DeviceID  string    `db:"device_id"`
	SubjectID *string   `db:"subject_id"`
	TestType  TestType  `db:"test_type"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Product struct {
	ID        string      `db:"id"`
	Type      ProductType `db:"type"`
	PaymentID *string     `db:"payment_id"`
	UserID    string      `db:"user_id"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

type Report struct {
	ID         string      `db:"id"`
	SubjectID  string      `db:"subject_id"`
	UploaderID *string     `db:"uploader_id"`
	OrderID    *string     `db:"order_id"`
	ReportType *ReportType `db:"report_type"`
	TestType   *TestType   `db:"test_type"`
	FileName   *string     `db:"file_name"`
	FileType   *FileType   `db:"file_type"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

type SubjectShare struct {
	ID         string     `db:"id"`
	SubjectID  string     `db:"subject_id"`
	UserID     string     `db:"user_id"`
	AccessType AccessType `db:"access_type"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

type Payment struct {
	ID        string        `db:"id"`
	SubjectID *string       `db:"subject_id"`
	Status    PaymentStatus `db:"status"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

// FinanceSetting prices a test type for a user. Price is in minor currency
// units; nil means no price has been agreed.
type FinanceSetting struct {
	ID            string    `db:"id"`
	VersionNumber int       `db:"version_number"`
	TestType      TestType  `db:"test_type"`
	UserID        string    `db:"user_id"`
	TestAvailable bool      `db:"test_available"`
	Price         *int64    `db:"price"`
	Currency      Currency  `db:"currency"`
	CreatorID     *string   `db:"creator_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
