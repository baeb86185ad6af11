package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devblog/internal/domain"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestArticleForm(t *testing.T) {
	valid := func() ArticleForm {
		return ArticleForm{Title: " Hello World ", CategoryID: 1, Body: "text"}
	}

	f := valid()
	require.NoError(t, f.Validate())
	assert.Equal(t, "Hello World", f.Title)

	f = valid()
	f.Status = domain.StatusPublished
	assert.NoError(t, f.Validate())

	f = ArticleForm{Title: "   ", Body: ""}
	fields := fieldsOf(t, f.Validate())
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "body")

	f = valid()
	f.Title = strings.Repeat("x", 101)
	assert.Contains(t, fieldsOf(t, f.Validate()), "title")

	f = valid()
	f.Status = "archived"
	assert.Equal(t, "Unknown status.", fieldsOf(t, f.Validate())["status"])
}

func TestSignupForm(t *testing.T) {
	f := SignupForm{FirstName: "Ann", Username: "ann", Email: "ann@example.com", Password: "secret123"}
	require.NoError(t, f.Validate())

	f = SignupForm{FirstName: "Ann", Username: "ann smith", Email: "not-an-email", Password: "short"}
	fields := fieldsOf(t, f.Validate())
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.NotContains(t, fields, "first_name")
}

func TestLoginForm(t *testing.T) {
	f := LoginForm{}
	fields := fieldsOf(t, f.Validate())
	assert.Len(t, fields, 2)
}

func TestProfileForm(t *testing.T) {
	f := ProfileForm{}
	require.NoError(t, f.Validate(), "every profile field is optional")
	assert.False(t, f.ChangesPassword())

	f = ProfileForm{Website: "not a url", Email: "bad", NewPassword: "short", OldPassword: "x"}
	fields := fieldsOf(t, f.Validate())
	assert.Contains(t, fields, "website")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "new_password")

	f = ProfileForm{Website: "https://example.com/" + strings.Repeat("a", 200)}
	fields = fieldsOf(t, f.Validate())
	assert.Equal(t, "At most 200 characters.", fields["website"])

	f = ProfileForm{Website: "https://example.com", OldPassword: "oldpass12", NewPassword: "newpass12"}
	require.NoError(t, f.Validate())
	assert.True(t, f.ChangesPassword())
}

func TestSubscribeForm(t *testing.T) {
	f := SubscribeForm{Email: "  Reader@Example.com "}
	require.NoError(t, f.Validate())
	assert.Equal(t, "reader@example.com", f.Email)

	f = SubscribeForm{Email: "nope"}
	assert.Contains(t, fieldsOf(t, f.Validate()), "email")
}
