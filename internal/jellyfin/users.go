package jellyfin

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/text/cases"
)

// GetUsers lists every user on the server.
func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.get(ctx, "/Users", &users); err != nil {
		return nil, fmt.Errorf("getting users: %w", err)
	}
	return users, nil
}

// FindUser returns the user with the given name, or nil. Names are compared
// with Unicode case folding.
func (c *Client) FindUser(ctx context.Context, name string) (*User, error) {
	users, err := c.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	want := fold.String(name)
	for i := range users {
		if fold.String(users[i].Name) == want {
			return &users[i], nil
		}
	}
	return nil, nil
}

// CreateUser adds a user with the given password.
func (c *Client) CreateUser(ctx context.Context, name, password string) (*User, error) {
	payload := map[string]string{
		"Name":     name,
		"Password": password,
	}
	var user User
	if err := c.post(ctx, "/Users/New", payload, &user); err != nil {
		return nil, fmt.Errorf("creating user %s: %w", name, err)
	}
	return &user, nil
}

// SetLibraryAccess limits a user to the given library ids. The rest of the
// policy document is sent back unchanged.
func (c *Client) SetLibraryAccess(ctx context.Context, userID string, libraryIDs []string) error {
	var user struct {
		Policy map[string]interface{} `json:"Policy"`
	}
	if err := c.get(ctx, "/Users/"+url.PathEscape(userID), &user); err != nil {
		return fmt.Errorf("getting policy of %s: %w", userID, err)
	}
	if user.Policy == nil {
		user.Policy = map[string]interface{}{}
	}

	folders := libraryIDs
	if folders == nil {
		folders = []string{}
	}
	user.Policy["EnableAllFolders"] = false
	user.Policy["EnabledFolders"] = folders

	if err := c.post(ctx, "/Users/"+url.PathEscape(userID)+"/Policy", user.Policy, nil); err != nil {
		return fmt.Errorf("updating policy of %s: %w", userID, err)
	}
	return nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if err := c.delete(ctx, "/Users/"+url.PathEscape(userID)); err != nil {
		return fmt.Errorf("deleting user %s: %w", userID, err)
	}
	return nil
}
