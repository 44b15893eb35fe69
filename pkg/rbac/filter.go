package rbac

import "fmt"

// FilterExpression is a SQL predicate scoping a listing query to the rows
// a principal may see. Clause uses $N placeholders starting at the offset
// given to OwnershipFilter, so it composes with the caller's own
// parameters.
type FilterExpression struct {
	Clause string
	Args   []interface{}
}

// OwnershipFilter builds the row-visibility predicate for listing queries
// over owned resources: admins see everything; everyone else sees their
// own rows plus explicitly shared ones.
//
// Every listing entry point must apply this; a second query path that
// forgets it silently breaks isolation, which is why stores take the
// expression as a required argument rather than offering an unfiltered
// variant.
func OwnershipFilter(principal Principal, argOffset int) FilterExpression {
	if principal.Role == RoleAdmin {
		return FilterExpression{Clause: "1=1"}
	}
	return FilterExpression{
		Clause: fmt.Sprintf("(owner_user_id = $%d OR is_shared = $%d)", argOffset, argOffset+1),
		Args:   []interface{}{principal.UserID, true},
	}
}
