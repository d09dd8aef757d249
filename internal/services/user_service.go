package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Joeykosseifi/JobLink-project-sub001/internal/auth"
	"github.com/Joeykosseifi/JobLink-project-sub001/internal/models"
	"github.com/Joeykosseifi/JobLink-project-sub001/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService orchestrates the user lifecycle: validation, the pre-persist
// password step, and persistence through the injected repository.
type UserService struct {
	repo repository.UserRepository
	log  *zap.SugaredLogger
}

func NewUserService(repo repository.UserRepository, log *zap.SugaredLogger) *UserService {
	return &UserService{repo: repo, log: log}
}

// Register validates the new user, hashes the password and inserts the
// document. Validation and duplicate-email errors surface unmodified.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	u := models.NewUser(name, email, password)
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.preparePassword(u, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Infow("user registered", "email", u.Email, "id", u.ID.Hex())
	// never hand plaintext or hash back to callers
	u.Password = ""
	return u, nil
}

// Authenticate checks the candidate password against the stored hash.
// Unknown email and wrong password both come back as ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.FindByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(password, u.Password) {
		return nil, ErrInvalidCredentials
	}
	u.Password = ""
	return u, nil
}

func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

// ProfileUpdate carries the optional profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name         *string
	Title        *string
	Bio          *string
	ProfileImage *string
	JobRole      *string
}

// UpdateProfile merges the given fields into the stored document and
// re-validates before persisting. The password is untouched on this path,
// so the stored hash stays byte-identical.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if upd.Name != nil {
		u.Name = *upd.Name
		fields["name"] = u.Name
	}
	if upd.Title != nil {
		u.Title = *upd.Title
		fields["title"] = u.Title
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
		fields["bio"] = u.Bio
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = *upd.ProfileImage
		fields["profileImage"] = u.ProfileImage
	}
	if upd.JobRole != nil {
		jr, err := models.ParseJobRole(*upd.JobRole)
		if err != nil {
			return nil, err
		}
		u.JobRole = jr
		fields["jobRole"] = jr
	}
	if len(fields) == 0 {
		return u, nil
	}

	// the fetched document carries no password; check only profile fields
	if err := u.ValidatePartial("Name", "Title", "Bio", "ProfileImage"); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword runs the full password lifecycle for an explicit change:
// length check, fresh salt and hash, single-field update.
func (s *UserService) ChangePassword(ctx context.Context, id primitive.ObjectID, newPassword string) error {
	if len(newPassword) < 8 {
		return models.ValidationErrors{{
			Field:   "Password",
			Tag:     "min",
			Message: "Password must be at least 8 characters",
		}}
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdateFields(ctx, id, bson.M{"password": hash})
}

// ChangeSubscription moves the user to a new plan and records the payment.
func (s *UserService) ChangeSubscription(ctx context.Context, id primitive.ObjectID, plan models.SubscriptionPlan, cycle models.BillingCycle, amount float64, paymentMethod string) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.SubscriptionPlan = plan
	if u.Billing == nil {
		u.Billing = models.DefaultBilling()
	}
	u.Billing.Cycle = cycle
	u.Billing.Amount = amount
	u.Billing.PaymentMethod = paymentMethod
	if amount > 0 {
		u.Billing.PaymentHistory = append(u.Billing.PaymentHistory, models.PaymentRecord{
			Amount: amount,
			Date:   nowUTC(),
			Plan:   plan,
			Cycle:  cycle,
		})
		next := nextBillingDate(nowUTC(), cycle)
		u.Billing.NextBillingDate = &next
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	s.log.Infow("subscription changed", "id", id.Hex(), "plan", plan)
	return u, nil
}

func (s *UserService) RequestConnection(ctx context.Context, to, from primitive.ObjectID) error {
	if to == from {
		return errors.New("cannot connect to yourself")
	}
	return s.repo.AddConnectionRequest(ctx, to, from)
}

func (s *UserService) AcceptConnection(ctx context.Context, userID, requesterID primitive.ObjectID) error {
	return s.repo.AcceptConnectionRequest(ctx, userID, requesterID)
}

func (s *UserService) SaveJob(ctx context.Context, userID, jobID primitive.ObjectID) error {
	return s.repo.SaveJob(ctx, userID, jobID)
}

func (s *UserService) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Deactivate(ctx, id)
}

// preparePassword is the pre-persist step guaranteeing plaintext never
// reaches the store. It hashes the password if and only if it differs from
// the last-persisted hash: an empty or unchanged value is left alone, which
// is what keeps unrelated saves (profile edits, the billing backfill) from
// scrambling an already-hashed password.
func (s *UserService) preparePassword(u *models.User, storedHash string) error {
	if u.Password == "" || u.Password == storedHash {
		return nil
	}
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = hash
	return nil
}
