package domain

import (
	"errors"
	"testing"
	"time"
)

func TestUser_ApplyScoreIsMonotonic(t *testing.T) {
	u := &User{}
	steps := []struct {
		score   int
		raised  bool
		wantMax int
	}{
		{150, true, 150},
		{90, false, 150},
		{150, false, 150},
		{151, true, 151},
		{0, false, 151},
	}
	for _, s := range steps {
		if got := u.ApplyScore(s.score); got != s.raised {
			t.Fatalf("ApplyScore(%d) = %v, want %v", s.score, got, s.raised)
		}
		if u.BestScore != s.wantMax {
			t.Fatalf("after %d best = %d, want %d", s.score, u.BestScore, s.wantMax)
		}
	}
}

func TestUser_Passwords(t *testing.T) {
	hash, err := HashPassword("Passw0rd")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := NewLocalUser(" abc ", " A@B.com ", hash, time.Now())

	if u.Username != "abc" || u.Email != "a@b.com" {
		t.Fatalf("fields not normalised: %+v", u)
	}
	if !u.PasswordMatches("Passw0rd") || u.PasswordMatches("passw0rd") {
		t.Fatalf("password comparison is wrong")
	}

	oauth := NewOAuthUser("g", &ExternalIdentity{Subject: "1", Email: "G@x.io"}, time.Now())
	if oauth.HasPassword() || oauth.PasswordMatches("") {
		t.Fatalf("oauth accounts have no usable password")
	}
}

func TestUser_RecordLogin(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := NewLocalUser("abc", "a@b.com", "h", created)
	later := created.Add(time.Hour)

	u.RecordLogin(later)

	if u.LoginCount != 2 || !u.LastLoginAt.Equal(later) || !u.UpdatedAt.Equal(later) {
		t.Fatalf("unexpected bookkeeping: %+v", u)
	}
}

func TestCheckPlausible(t *testing.T) {
	if err := CheckPlausible(MaxPlausibleScore); err != nil {
		t.Fatalf("ceiling should be allowed: %v", err)
	}
	if err := CheckPlausible(MaxPlausibleScore + 1); !errors.Is(err, ErrUnrealisticScore) {
		t.Fatalf("expected ErrUnrealisticScore, got %v", err)
	}
}

func TestRankEntries(t *testing.T) {
	joined := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	entries := RankEntries([]*User{
		{Username: "a", BestScore: 30, CreatedAt: joined},
		{Username: "b", BestScore: 20},
	})

	if len(entries) != 2 || entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Fatalf("unexpected ranks: %+v", entries)
	}
	if entries[0].Score != 30 || !entries[0].JoinedAt.Equal(joined) {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if RankFor(0) != 1 || RankFor(4) != 5 {
		t.Fatalf("RankFor is off by one")
	}
}

func TestErrorKindStatus(t *testing.T) {
	cases := map[*Error]int{
		ErrInvalidCredentials:    401,
		ErrAdminRequired:         403,
		ErrUserNotFound:          404,
		ErrEmailTaken:            409,
		ErrUnrealisticScore:      400,
		ErrTooManyRequests:       429,
		NewDatabaseError("x"):    500,
		NewUnavailableError("x"): 503,
	}
	for err, want := range cases {
		if got := err.StatusCode(); got != want {
			t.Fatalf("%v: status %d, want %d", err, got, want)
		}
	}
}
