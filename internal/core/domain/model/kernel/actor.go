package kernel

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Role is the capacity in which an actor performs an operation.
type Role int

const (
	RoleUnknown Role = iota
	RoleBuyer
	RoleSeller
	RoleCourier
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleBuyer:   "buyer",
		RoleSeller:  "seller",
		RoleCourier: "courier",
		RoleAdmin:   "admin",
	}
}

// ParseRole maps the lower-case role name used on the wire back to a Role.
func ParseRole(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if strings.EqualFold(name, s) {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the authenticated caller of an operation: a user id and the role
// the upstream gateway vouched for.
type Actor struct {
	id            UUID
	role          Role
	isConstructed bool
}

func NewActor(id UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role, isConstructed: true}, nil
}

func (a Actor) Validate() error {
	if !a.isConstructed {
		return ErrActorIsNotConstructed
	}
	return nil
}

func (a Actor) ID() UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

// Is reports whether the actor is the given user acting in the given role.
func (a Actor) Is(id UUID, role Role) bool {
	return a.role == role && a.id.IsEqual(id)
}
