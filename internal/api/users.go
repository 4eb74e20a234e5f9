package api

import (
	"errors"   // Body limit detection
	"net/http" // HTTP status codes

	"skate_marketplace/internal/apperr"  // Error envelope
	"skate_marketplace/internal/dto"     // Request bodies
	"skate_marketplace/internal/service" // Account management

	"github.com/gin-gonic/gin" // Gin web framework
)

// multipart overhead allowed on top of the file itself
const multipartSlack = 1 << 20

// ListUsersHandler returns a page of accounts (admin)
func ListUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.PageQuery
		if !bindQuery(c, &q) {
			return
		}
		page, err := users.List(c.Request.Context(), q)
		reply(c, http.StatusOK, page, err)
	}
}

// CreateUserHandler creates an account with any role (admin)
func CreateUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateUserRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := users.Create(c.Request.Context(), req)
		reply(c, http.StatusCreated, user, err)
	}
}

// GetUserHandler returns one account (admin)
func GetUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		user, err := users.Get(c.Request.Context(), id)
		reply(c, http.StatusOK, user, err)
	}
}

// UpdateUserHandler edits any account, role and activation included (admin)
func UpdateUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dto.UpdateUserRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := users.Update(c.Request.Context(), id, req)
		reply(c, http.StatusOK, user, err)
	}
}

// DeleteUserHandler removes an account without orders (admin)
func DeleteUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		deleted(c, "User", users.Delete(c.Request.Context(), id))
	}
}

// GetProfileHandler returns the caller's profile with addresses and preferences
func GetProfileHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		user, err := users.Profile(c.Request.Context(), p.UserID)
		reply(c, http.StatusOK, user, err)
	}
}

// UpdateProfileHandler edits the caller's own account
func UpdateProfileHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		var req dto.UpdateProfileRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := users.UpdateProfile(c.Request.Context(), p.UserID, req)
		reply(c, http.StatusOK, user, err)
	}
}

// UploadAvatarHandler stores the multipart "avatar" file as the caller's avatar
func UploadAvatarHandler(users *service.UserService, maxFileSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFileSize+multipartSlack)
		header, err := c.FormFile("avatar")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				apperr.Respond(c, apperr.Validation("File too large"))
				return
			}
			apperr.Respond(c, apperr.Validation("Avatar file is required").
				WithDetails(map[string]string{"avatar": "is required"}))
			return
		}
		file, err := header.Open()
		if err != nil {
			apperr.Respond(c, apperr.Internal(err))
			return
		}
		defer file.Close()

		user, err := users.UploadAvatar(c.Request.Context(), p.UserID, service.Upload{
			Filename: header.Filename,
			Size:     header.Size,
			Body:     file,
		})
		reply(c, http.StatusOK, user, err)
	}
}

// ListAddressesHandler returns the caller's addresses, defaults first
func ListAddressesHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		addresses, err := users.ListAddresses(c.Request.Context(), p.UserID)
		reply(c, http.StatusOK, addresses, err)
	}
}

// GetAddressHandler returns one of the caller's addresses
func GetAddressHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "addressId")
		if !ok {
			return
		}
		address, err := users.GetAddress(c.Request.Context(), p.UserID, id)
		reply(c, http.StatusOK, address, err)
	}
}

// CreateAddressHandler adds an address for the caller
func CreateAddressHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		var req dto.AddressRequest
		if !bindJSON(c, &req) {
			return
		}
		address, err := users.CreateAddress(c.Request.Context(), p.UserID, req)
		reply(c, http.StatusCreated, address, err)
	}
}

// UpdateAddressHandler edits one of the caller's addresses
func UpdateAddressHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "addressId")
		if !ok {
			return
		}
		var req dto.UpdateAddressRequest
		if !bindJSON(c, &req) {
			return
		}
		address, err := users.UpdateAddress(c.Request.Context(), p.UserID, id, req)
		reply(c, http.StatusOK, address, err)
	}
}

// DeleteAddressHandler removes one of the caller's addresses
func DeleteAddressHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "addressId")
		if !ok {
			return
		}
		deleted(c, "Address", users.DeleteAddress(c.Request.Context(), p.UserID, id))
	}
}

// GetPreferencesHandler returns the caller's preferences, defaults when never saved
func GetPreferencesHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		prefs, err := users.Preferences(c.Request.Context(), p.UserID)
		reply(c, http.StatusOK, prefs, err)
	}
}

// UpsertPreferencesHandler creates or merges the caller's preferences
func UpsertPreferencesHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := caller(c)
		if !ok {
			return
		}
		var req dto.PreferencesRequest
		if !bindJSON(c, &req) {
			return
		}
		prefs, err := users.UpsertPreferences(c.Request.Context(), p.UserID, req)
		reply(c, http.StatusOK, prefs, err)
	}
}
