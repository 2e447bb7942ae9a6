package roles

import (
	_ "embed"
	"medmarket-service/internal/app/contracts"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
)

var (
	//go:embed rbac_model.conf
	rbacModel string
	//go:embed rbac_policy.csv
	rbacPolicy string
)

type casbinAuthorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer builds an enforcer from the embedded model and policy. Policy paths are
// relative to the versioned API prefix.
func NewAuthorizer() (contracts.Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(strings.TrimSpace(rbacPolicy)))
	if err != nil {
		return nil, err
	}
	return &casbinAuthorizer{enforcer: enforcer}, nil
}

func (a *casbinAuthorizer) IsAllowed(role, path, method string) (bool, error) {
	if role == "" {
		return false, nil
	}
	return a.enforcer.Enforce(role, method, path)
}
