package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/testutil/memstore"
)

func memOpener(store *memstore.Store) userStoreOpener {
	return func(context.Context) (roleSetter, func(), error) {
		return store.Users, func() {}, nil
	}
}

func runPromote(t *testing.T, store *memstore.Store, args ...string) (string, error) {
	t.Helper()
	cmd := newPromoteCmd(memOpener(store))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPromote(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	if err := store.Users.Create(ctx, &domain.User{ID: "u1", Email: "jane@sxc.edu", Role: domain.RoleStudent}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, err := runPromote(t, store, "jane@sxc.edu")
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !strings.Contains(out, "jane@sxc.edu is now admin") {
		t.Fatalf("unexpected output %q", out)
	}
	u, _ := store.Users.FindByEmail(ctx, "jane@sxc.edu")
	if u.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %q", u.Role)
	}

	if _, err := runPromote(t, store, "jane@sxc.edu", "--role", "student"); err != nil {
		t.Fatalf("demote: %v", err)
	}
	u, _ = store.Users.FindByEmail(ctx, "jane@sxc.edu")
	if u.Role != domain.RoleStudent {
		t.Fatalf("expected student, got %q", u.Role)
	}
}

func TestPromote_Errors(t *testing.T) {
	store := memstore.New()

	if _, err := runPromote(t, store, "ghost@sxc.edu"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := runPromote(t, store, "x@sxc.edu", "--role", "superuser"); err == nil || !strings.Contains(err.Error(), "invalid role") {
		t.Fatalf("expected invalid role error, got %v", err)
	}
	if _, err := runPromote(t, store); err == nil {
		t.Fatalf("expected missing argument error")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"serve", "migrate", "promote"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %s not registered: %v", name, err)
		}
	}
}
