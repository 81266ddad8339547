// Package xmlcodec converts between stored records and their XML documents.
//
// Every record kind gets an explicit encode/decode pair; there is no
// reflection-driven mapping. Long free-text fields (movie plot, comment
// body) are emitted as CDATA blocks so markup-significant characters
// survive a round trip unescaped.
package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strconv"
	"strings"
	"time"

	"aqwari.net/xml/xmltree"

	"moviehub/internal/models"
)

var (
	ErrMissingID       = errors.New("movie document is missing the required id attribute")
	ErrMissingTitle    = errors.New("movie document is missing the required title element")
	ErrMissingMovieRef = errors.New("document is missing the required movieId element")
	ErrMissingBody     = errors.New("comment document is missing the required body element")
	ErrBadRoot         = errors.New("unexpected document root element")
)

const dateFormat = time.RFC3339

// Parse parses a raw XML document into an element tree. Handlers that do
// not go through the schema validator use this directly.
func Parse(raw []byte) (*xmltree.Element, error) {
	return xmltree.Parse(raw)
}

// Document serializes an element tree as a standalone XML document.
func Document(el *xmltree.Element) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(xmltree.Marshal(el))
	return buf.Bytes()
}

// DecodeMovie extracts movie fields from a parsed <movie> document.
// The id attribute and title element are required; a missing one is a
// caller-visible validation failure. An unparsable year or rating is
// treated as absent, never as an error.
func DecodeMovie(root *xmltree.Element) (models.Movie, error) {
	var m models.Movie

	if root.Name.Local != "movie" {
		return m, ErrBadRoot
	}

	m.MovieID = strings.TrimSpace(root.Attr("", "id"))
	if m.MovieID == "" {
		return m, ErrMissingID
	}

	title, ok := childText(root, "title")
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		return m, ErrMissingTitle
	}
	m.Title = title

	if s, ok := childText(root, "year"); ok {
		if year, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			m.Year = &year
		}
	}
	if s, ok := childText(root, "director"); ok {
		if s = strings.TrimSpace(s); s != "" {
			m.Director = &s
		}
	}
	// Plot keeps its exact text, CDATA or not. No trimming.
	if s, ok := childText(root, "plot"); ok && s != "" {
		m.Plot = &s
	}
	if s, ok := childText(root, "posterUrl"); ok {
		if s = strings.TrimSpace(s); s != "" {
			m.PosterURL = &s
		}
	}
	if s, ok := childText(root, "rating"); ok {
		if rating, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			m.Rating = &rating
		}
	}

	return m, nil
}

// EncodeMovie produces the full <movie> element for a single record.
// Absent optional fields produce no child element.
func EncodeMovie(m models.Movie) *xmltree.Element {
	root := newElement("movie")
	setAttr(root, "id", m.MovieID)

	appendTextChild(root, "title", m.Title)
	if m.Year != nil {
		appendTextChild(root, "year", strconv.Itoa(*m.Year))
	}
	if m.Director != nil {
		appendTextChild(root, "director", *m.Director)
	}
	if m.Plot != nil {
		appendCDATAChild(root, "plot", *m.Plot)
	}
	if m.PosterURL != nil {
		appendTextChild(root, "posterUrl", *m.PosterURL)
	}
	if m.Rating != nil {
		appendTextChild(root, "rating", strconv.FormatFloat(*m.Rating, 'f', 1, 64))
	}

	return root
}

// EncodeMovieList produces the lightweight <movies> projection used for
// bulk listing: one id+title child per record.
func EncodeMovieList(movies []models.Movie) *xmltree.Element {
	root := newElement("movies")
	for _, m := range movies {
		el := newElement("movie")
		setAttr(el, "id", m.MovieID)
		appendTextChild(el, "title", m.Title)
		appendChild(root, el)
	}
	return root
}

// EncodeUser produces a <user> element without credential material.
func EncodeUser(u models.User) *xmltree.Element {
	el := newElement("user")
	setAttr(el, "id", u.ID)
	appendTextChild(el, "username", u.Username)
	appendTextChild(el, "email", u.Email)
	return el
}

// EncodeAccount wraps a user and their bearer token, as returned from
// registration and token issuance.
func EncodeAccount(u models.User, token string) *xmltree.Element {
	root := newElement("account")
	appendChild(root, EncodeUser(u))
	appendTextChild(root, "token", token)
	return root
}

// EncodeWatched produces a single watch-list entry element.
func EncodeWatched(w models.WatchedMovie) *xmltree.Element {
	el := newElement("watched")
	setAttr(el, "id", strconv.FormatInt(w.ID, 10))
	setAttr(el, "movieId", w.MovieID)
	if w.Movie.Title != "" {
		appendTextChild(el, "movieTitle", w.Movie.Title)
	}
	appendTextChild(el, "watchedDate", w.WatchedDate.Format(dateFormat))
	if w.UserRating != nil {
		appendTextChild(el, "userRating", strconv.FormatFloat(*w.UserRating, 'f', 1, 64))
	}
	return el
}

// EncodeWatchedList wraps a user's watch-list entries.
func EncodeWatchedList(entries []models.WatchedMovie) *xmltree.Element {
	root := newElement("watchedList")
	for _, w := range entries {
		appendChild(root, EncodeWatched(w))
	}
	return root
}

// DecodeWatched reads a watch-list add request. The movie reference is
// required; the personal rating follows the same absent-on-unparsable
// policy as movie ratings.
func DecodeWatched(root *xmltree.Element) (models.WatchedMovie, error) {
	var w models.WatchedMovie

	if root.Name.Local != "watched" {
		return w, ErrBadRoot
	}

	movieID, ok := childText(root, "movieId")
	movieID = strings.TrimSpace(movieID)
	if !ok || movieID == "" {
		return w, ErrMissingMovieRef
	}
	w.MovieID = movieID

	if s, ok := childText(root, "userRating"); ok {
		if rating, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			w.UserRating = &rating
		}
	}

	return w, nil
}

// EncodeComment produces a single comment element. The body is a CDATA
// block for the same round-trip reasons as movie plots.
func EncodeComment(cm models.Comment) *xmltree.Element {
	el := newElement("comment")
	setAttr(el, "id", strconv.FormatInt(cm.ID, 10))
	setAttr(el, "movieId", cm.MovieID)
	if cm.User.Username != "" {
		appendTextChild(el, "author", cm.User.Username)
	}
	appendCDATAChild(el, "body", cm.Body)
	appendTextChild(el, "createdAt", cm.CreatedAt.Format(dateFormat))
	return el
}

// EncodeCommentList wraps the comments of one movie.
func EncodeCommentList(movieID string, comments []models.Comment) *xmltree.Element {
	root := newElement("comments")
	setAttr(root, "movieId", movieID)
	for _, cm := range comments {
		appendChild(root, EncodeComment(cm))
	}
	return root
}

// DecodeComment reads a comment creation request.
func DecodeComment(root *xmltree.Element) (models.Comment, error) {
	var cm models.Comment

	if root.Name.Local != "comment" {
		return cm, ErrBadRoot
	}

	body, ok := childText(root, "body")
	if !ok || body == "" {
		return cm, ErrMissingBody
	}
	cm.Body = body

	return cm, nil
}

// Registration carries the fields of a <user> registration document.
type Registration struct {
	Username string
	Email    string
	Password string
}

// DecodeRegistration reads a registration request. All three fields are
// required.
func DecodeRegistration(root *xmltree.Element) (Registration, error) {
	var reg Registration

	if root.Name.Local != "user" {
		return reg, ErrBadRoot
	}

	var missing []string
	for _, field := range []struct {
		name   string
		target *string
	}{
		{"username", &reg.Username},
		{"email", &reg.Email},
		{"password", &reg.Password},
	} {
		s, ok := childText(root, field.name)
		s = strings.TrimSpace(s)
		if !ok || s == "" {
			missing = append(missing, field.name)
			continue
		}
		*field.target = s
	}
	if len(missing) > 0 {
		return reg, errors.New("registration document is missing required elements: " + strings.Join(missing, ", "))
	}

	return reg, nil
}

// Credentials carries a token request body.
type Credentials struct {
	Username string
	Password string
}

// DecodeCredentials reads an <auth> token request.
func DecodeCredentials(root *xmltree.Element) (Credentials, error) {
	var creds Credentials

	if root.Name.Local != "auth" {
		return creds, ErrBadRoot
	}

	username, _ := childText(root, "username")
	password, _ := childText(root, "password")
	creds.Username = strings.TrimSpace(username)
	creds.Password = password
	if creds.Username == "" || creds.Password == "" {
		return creds, errors.New("auth document requires username and password elements")
	}

	return creds, nil
}

// DecodeImportRequest reads an <importRequest> body and returns the title
// to search for.
func DecodeImportRequest(root *xmltree.Element) (string, error) {
	if root.Name.Local != "importRequest" {
		return "", ErrBadRoot
	}
	title, ok := childText(root, "title")
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		return "", errors.New("a title element is required in the import request")
	}
	return title, nil
}

// EncodeError produces the structured error payload used on every
// failure path.
func EncodeError(message string) *xmltree.Element {
	root := newElement("error")
	appendTextChild(root, "message", message)
	return root
}
