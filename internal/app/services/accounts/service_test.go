package accounts

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/patitas/storefront/internal/app/domain/param"
	"github.com/patitas/storefront/internal/app/services/params"
	"github.com/patitas/storefront/internal/app/storage/memory"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []string // "to|subject|body"
}

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject+"|"+body)
	return nil
}

func newService(t *testing.T, mailer Mailer) *Service {
	t.Helper()
	store := memory.New()
	paramSvc := params.New(params.SourceFunc(func(ctx context.Context) ([]param.Parameter, error) {
		return nil, nil // defaults: 3 attempts
	}), memory.New(), nil)
	return New(store, store, paramSvc, mailer, "test-secret", nil)
}

func register(t *testing.T, svc *Service) string {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Alice@Example.com",
		Password: "hunter22",
		Name:     "Alice",
		Phone:    "555-0100",
	})
	if err != nil {
		t.Fatal(err)
	}
	return u.ID
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	userID := register(t, svc)

	// Email matching is case-insensitive.
	token, u, err := svc.Authenticate(ctx, "ALICE@example.COM", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != userID {
		t.Fatalf("user id = %s, want %s", u.ID, userID)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != userID || claims.Email != "alice@example.com" || claims.Role != "client" {
		t.Fatalf("claims = %+v", claims)
	}

	// Registration also opened a customer profile.
	c, err := svc.CustomerForUser(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if c.Email != "alice@example.com" || c.Phone != "555-0100" {
		t.Fatalf("customer = %+v", c)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newService(t, nil)
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "different",
		Name:     "Imposter",
	})
	if err == nil {
		t.Fatal("duplicate email accepted")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newService(t, nil)
	cases := []RegisterInput{
		{Email: "", Password: "hunter22", Name: "A"},
		{Email: "not-an-email", Password: "hunter22", Name: "A"},
		{Email: "a@b.com", Password: "short", Name: "A"},
		{Email: "a@b.com", Password: "hunter22", Name: "  "},
	}
	for i, in := range cases {
		if _, err := svc.Register(context.Background(), in); err == nil {
			t.Errorf("case %d: invalid input %+v accepted", i, in)
		}
	}
}

func TestLockoutAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	register(t, svc)

	for i := 0; i < 2; i++ {
		if _, _, err := svc.Authenticate(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v, want ErrInvalidCredentials", i+1, err)
		}
	}
	// Third wrong attempt reaches the default threshold of 3.
	if _, _, err := svc.Authenticate(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("err = %v, want ErrAccountLocked", err)
	}
	// Even the right password is refused while locked.
	if _, _, err := svc.Authenticate(ctx, "alice@example.com", "hunter22"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("err = %v, want ErrAccountLocked", err)
	}
}

func TestSuccessfulSignInResetsCounter(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	register(t, svc)

	svc.Authenticate(ctx, "alice@example.com", "wrong")
	svc.Authenticate(ctx, "alice@example.com", "wrong")
	if _, _, err := svc.Authenticate(ctx, "alice@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}

	// The counter restarted, so two more misses do not lock.
	svc.Authenticate(ctx, "alice@example.com", "wrong")
	if _, _, err := svc.Authenticate(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUnknownEmailIsInvalidCredentials(t *testing.T) {
	svc := newService(t, nil)
	if _, _, err := svc.Authenticate(context.Background(), "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRecoverPasswordUnlocksAndMails(t *testing.T) {
	ctx := context.Background()
	mailer := &captureMailer{}
	svc := newService(t, mailer)
	register(t, svc)

	for i := 0; i < 3; i++ {
		svc.Authenticate(ctx, "alice@example.com", "wrong")
	}
	if err := svc.RecoverPassword(ctx, "alice@example.com"); err != nil {
		t.Fatal(err)
	}
	if len(mailer.sent) != 1 || !strings.HasPrefix(mailer.sent[0], "alice@example.com|") {
		t.Fatalf("sent = %v", mailer.sent)
	}

	// The mailed temporary password signs in and the lock is gone.
	parts := strings.Split(mailer.sent[0], "|")
	body := parts[2]
	temp := strings.TrimSpace(strings.Split(strings.TrimPrefix(body, "Your temporary password is: "), "\n")[0])
	if _, _, err := svc.Authenticate(ctx, "alice@example.com", temp); err != nil {
		t.Fatalf("temporary password rejected: %v", err)
	}

	// Unknown emails succeed silently without mail.
	if err := svc.RecoverPassword(ctx, "nobody@example.com"); err != nil {
		t.Fatal(err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("mail sent for unknown email: %v", mailer.sent)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	userID := register(t, svc)

	if err := svc.ChangePassword(ctx, userID, "wrong", "newpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(ctx, userID, "hunter22", "newpassword"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Authenticate(ctx, "alice@example.com", "newpassword"); err != nil {
		t.Fatal(err)
	}
}

func TestTokenExpiry(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	register(t, svc)

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return issued })
	token, _, err := svc.Authenticate(ctx, "alice@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	svc.WithClock(func() time.Time { return issued.Add(25 * time.Hour) })
	if _, err := svc.VerifyToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestAdminUnlock(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	userID := register(t, svc)

	for i := 0; i < 3; i++ {
		svc.Authenticate(ctx, "alice@example.com", "wrong")
	}
	if err := svc.Unlock(ctx, userID); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Authenticate(ctx, "alice@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}
}
