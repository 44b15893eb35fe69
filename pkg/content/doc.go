// Package content implements the article domain: the concrete owned
// resource the authorization core protects.
//
// The Store exposes no unfiltered listing method (List requires an
// rbac.FilterExpression), so row isolation cannot be bypassed by a
// forgotten query path. The Service layers the permission checks on top
// and converts denied reads into not-found, hiding the existence of
// private articles from non-owners.
package content
