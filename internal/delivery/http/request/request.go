package request

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// URLNameField is the form field carrying the submitted URL.
const URLNameField = "url[name]"

// AddURLForm is the body of POST /urls.
type AddURLForm struct {
	Name string
}

// ParseAddURLForm reads the add-URL form from r.
func ParseAddURLForm(r *http.Request) (AddURLForm, error) {
	if err := r.ParseForm(); err != nil {
		return AddURLForm{}, err
	}
	return AddURLForm{Name: r.PostForm.Get(URLNameField)}, nil
}

// URLID parses the {id} route parameter. ok is false for anything that is
// not a positive integer.
func URLID(r *http.Request) (id int64, ok bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
