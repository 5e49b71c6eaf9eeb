// Package authz decides which roles may call which API routes. The model and
// policy are embedded casbin files; roles inherit admin > librarian > member.
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/dmitrijs2005/libris/internal/server/models"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an enforcer from the embedded model and policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := loadPolicy(e, embeddedPolicy); err != nil {
		return nil, err
	}

	return &Enforcer{enforcer: e}, nil
}

// loadPolicy reads "p, sub, obj, act" and "g, child, parent" lines.
func loadPolicy(e *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := e.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := e.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Allow reports whether role may perform method on path.
func (e *Enforcer) Allow(role models.Role, path, method string) (bool, error) {
	ok, err := e.enforcer.Enforce(subject(role), path, method)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return ok, nil
}

func subject(role models.Role) string {
	return strings.ToLower(string(role))
}
