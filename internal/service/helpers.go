// Package service contains the business rules sitting between HTTP
// handlers and the repositories.
package service

import "ayubo/internal/models"

// requireOwner rejects mutations on content the caller does not own.
func requireOwner(ownerID, userID uint, what string) error {
	if ownerID != userID {
		return models.NewForbiddenError("You can only modify your own " + what)
	}
	return nil
}
