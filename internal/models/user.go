package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type JobRole string

const (
	JobRoleSeeker JobRole = "job-seeker"
	JobRolePoster JobRole = "job-poster"
)

func ParseJobRole(s string) (JobRole, error) {
	switch JobRole(s) {
	case JobRoleSeeker, JobRolePoster:
		return JobRole(s), nil
	}
	return "", fmt.Errorf("unknown job role %q", s)
}

type SubscriptionPlan string

const (
	PlanFree     SubscriptionPlan = "free"
	PlanPremium  SubscriptionPlan = "premium"
	PlanBusiness SubscriptionPlan = "business"
)

func ParseSubscriptionPlan(s string) (SubscriptionPlan, error) {
	switch SubscriptionPlan(s) {
	case PlanFree, PlanPremium, PlanBusiness:
		return SubscriptionPlan(s), nil
	}
	return "", fmt.Errorf("unknown subscription plan %q", s)
}

// BillingCycle's zero value means no cycle has been chosen yet
// (free-plan users never pick one).
type BillingCycle string

const (
	CycleNone    BillingCycle = ""
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

func ParseBillingCycle(s string) (BillingCycle, error) {
	switch BillingCycle(s) {
	case CycleNone, CycleMonthly, CycleYearly:
		return BillingCycle(s), nil
	}
	return "", fmt.Errorf("unknown billing cycle %q", s)
}

// PaymentRecord is one entry in a user's payment history.
type PaymentRecord struct {
	Amount float64          `bson:"amount" json:"amount"`
	Date   time.Time        `bson:"date" json:"date"`
	Plan   SubscriptionPlan `bson:"plan" json:"plan"`
	Cycle  BillingCycle     `bson:"cycle,omitempty" json:"cycle,omitempty"`
}

type Billing struct {
	Cycle           BillingCycle    `bson:"cycle,omitempty" json:"cycle,omitempty"`
	NextBillingDate *time.Time      `bson:"nextBillingDate,omitempty" json:"nextBillingDate,omitempty"`
	Amount          float64         `bson:"amount" json:"amount"`
	PaymentMethod   string          `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	PaymentHistory  []PaymentRecord `bson:"paymentHistory" json:"paymentHistory"`
}

// DefaultBilling is the structure every user must carry, whether created
// fresh or patched by the backfill.
func DefaultBilling() *Billing {
	return &Billing{
		Cycle:          CycleNone,
		Amount:         0,
		PaymentHistory: []PaymentRecord{},
	}
}

type NotificationSettings struct {
	Email              bool `bson:"email" json:"email"`
	ConnectionRequests bool `bson:"connectionRequests" json:"connectionRequests"`
	JobAlerts          bool `bson:"jobAlerts" json:"jobAlerts"`
}

type PrivacySettings struct {
	ShowEmail   bool `bson:"showEmail" json:"showEmail"`
	ShowProfile bool `bson:"showProfile" json:"showProfile"`
}

type Preferences struct {
	DarkMode bool   `bson:"darkMode" json:"darkMode"`
	Language string `bson:"language" json:"language"`
}

type Settings struct {
	Notifications NotificationSettings `bson:"notifications" json:"notifications"`
	Privacy       PrivacySettings      `bson:"privacy" json:"privacy"`
	Preferences   Preferences          `bson:"preferences" json:"preferences"`
}

func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			Email:              true,
			ConnectionRequests: true,
			JobAlerts:          true,
		},
		Privacy: PrivacySettings{
			ShowEmail:   false,
			ShowProfile: true,
		},
		Preferences: Preferences{
			DarkMode: false,
			Language: "en",
		},
	}
}

// User is a platform member. Password holds the bcrypt hash once persisted;
// it only carries plaintext between validation and the pre-persist hashing
// step, and is excluded from default read projections by the repository.
type User struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name               string               `bson:"name" json:"name" validate:"required,max=50"`
	Email              string               `bson:"email" json:"email" validate:"required,email"`
	Password           string               `bson:"password,omitempty" json:"-" validate:"required,min=8"`
	Role               Role                 `bson:"role" json:"role"`
	JobRole            JobRole              `bson:"jobRole" json:"jobRole"`
	SubscriptionPlan   SubscriptionPlan     `bson:"subscriptionPlan,omitempty" json:"subscriptionPlan"`
	Billing            *Billing             `bson:"billing,omitempty" json:"billing"`
	Title              string               `bson:"title,omitempty" json:"title,omitempty" validate:"max=100"`
	Bio                string               `bson:"bio,omitempty" json:"bio,omitempty" validate:"max=500"`
	ProfileImage       string               `bson:"profileImage,omitempty" json:"profileImage,omitempty" validate:"max=2048"`
	Connections        []primitive.ObjectID `bson:"connections" json:"connections"`
	ConnectionRequests []primitive.ObjectID `bson:"connectionRequests" json:"connectionRequests"`
	PendingConnections []primitive.ObjectID `bson:"pendingConnections" json:"pendingConnections"`
	SavedJobs          []primitive.ObjectID `bson:"savedJobs" json:"savedJobs"`
	Settings           Settings             `bson:"settings" json:"settings"`
	Active             bool                 `bson:"active" json:"active"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
}

// NewUser builds a user with normalized identity fields and all
// creation-time defaults applied. Password is still plaintext here;
// the service hashes it before any write.
func NewUser(name, email, password string) *User {
	u := &User{
		Name:     strings.TrimSpace(name),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
		Active:   true,
	}
	u.ApplyDefaults()
	return u
}

// ApplyDefaults fills every unset field that has a declared default.
// Idempotent: fields already set keep their values. It deliberately
// leaves Active alone so patching a legacy record cannot reactivate a
// deactivated account.
func (u *User) ApplyDefaults() {
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.JobRole == "" {
		u.JobRole = JobRoleSeeker
	}
	if u.SubscriptionPlan == "" {
		u.SubscriptionPlan = PlanFree
	}
	if u.Billing == nil {
		u.Billing = DefaultBilling()
	}
	if u.Billing.PaymentHistory == nil {
		u.Billing.PaymentHistory = []PaymentRecord{}
	}
	if u.Connections == nil {
		u.Connections = []primitive.ObjectID{}
	}
	if u.ConnectionRequests == nil {
		u.ConnectionRequests = []primitive.ObjectID{}
	}
	if u.PendingConnections == nil {
		u.PendingConnections = []primitive.ObjectID{}
	}
	if u.SavedJobs == nil {
		u.SavedJobs = []primitive.ObjectID{}
	}
	if u.Settings.Preferences.Language == "" {
		u.Settings = DefaultSettings()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
}
