// Package access holds the ownership rule shared by every user-owned resource.
package access

import (
	"context"
	"fmt"

	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

// AnonymousUser owns every resource when authentication is disabled.
const AnonymousUser = "anonymous"

// CheckOwner returns FORBIDDEN when userID does not own the resource.
func CheckOwner(ctx context.Context, resource, resourceID, ownerID, userID string) error {
	if ownerID == userID {
		return nil
	}
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
		fmt.Sprintf("%s %s belongs to another user", resource, resourceID), nil,
		map[string]any{"resource": resource, "resource_id": resourceID})
}

// NotFound builds the NOT_FOUND error repositories return for missing rows.
func NotFound(ctx context.Context, resource, id string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
		fmt.Sprintf("%s %s not found", resource, id), nil,
		map[string]any{"resource": resource, "resource_id": id})
}
