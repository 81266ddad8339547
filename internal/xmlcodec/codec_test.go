package xmlcodec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqwari.net/xml/xmltree"

	"moviehub/internal/models"
	"moviehub/internal/xmlcodec"
)

// --- HELPER FUNCTIONS FOR POINTERS ---
func stringPtr(s string) *string  { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestMovieRoundTrip(t *testing.T) {
	in := models.Movie{
		MovieID:   "tt1375666",
		Title:     "Dreams & Heists",
		Year:      intPtr(2010),
		Director:  stringPtr("Christopher Nolan"),
		Plot:      stringPtr("A thief <i>steals</i> corporate secrets & plants an idea. Includes ]]> inside."),
		PosterURL: stringPtr("https://example.com/posters/inception.jpg"),
		Rating:    floatPtr(8.8),
	}

	doc := xmlcodec.Document(xmlcodec.EncodeMovie(in))

	// The plot must survive as a literal character data block.
	assert.Contains(t, string(doc), "<![CDATA[")

	root, err := xmlcodec.Parse(doc)
	require.NoError(t, err)

	out, err := xmlcodec.DecodeMovie(root)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeMovie_OmitsAbsentFields(t *testing.T) {
	doc := string(xmlcodec.Document(xmlcodec.EncodeMovie(models.Movie{
		MovieID: "tt0111161",
		Title:   "The Shawshank Redemption",
	})))

	assert.Contains(t, doc, `id="tt0111161"`)
	assert.Contains(t, doc, "<title>The Shawshank Redemption</title>")
	assert.NotContains(t, doc, "<year>")
	assert.NotContains(t, doc, "<director>")
	assert.NotContains(t, doc, "<plot>")
	assert.NotContains(t, doc, "<rating>")
}

func TestEncodeMovie_EscapesAttributeValues(t *testing.T) {
	// Identifiers like this are rejected by the schema on the write path,
	// but the encoder must still never emit malformed XML.
	doc := xmlcodec.Document(xmlcodec.EncodeMovie(models.Movie{
		MovieID: `a"b&c<d`,
		Title:   "Hostile ID",
	}))

	root, err := xmlcodec.Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, `a"b&c<d`, root.Attr("", "id"))
}

func TestEncodeMovie_NumericForms(t *testing.T) {
	doc := string(xmlcodec.Document(xmlcodec.EncodeMovie(models.Movie{
		MovieID: "tt1",
		Title:   "Numbers",
		Year:    intPtr(1994),
		Rating:  floatPtr(8.0),
	})))

	assert.Contains(t, doc, "<year>1994</year>")
	// Ratings always carry one fraction digit.
	assert.Contains(t, doc, "<rating>8.0</rating>")
}

func TestDecodeMovie_RequiredFields(t *testing.T) {
	t.Run("MissingID", func(t *testing.T) {
		root, err := xmlcodec.Parse([]byte(`<movie><title>No ID</title></movie>`))
		require.NoError(t, err)

		_, err = xmlcodec.DecodeMovie(root)
		assert.ErrorIs(t, err, xmlcodec.ErrMissingID)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		root, err := xmlcodec.Parse([]byte(`<movie id="tt1"><year>2000</year></movie>`))
		require.NoError(t, err)

		_, err = xmlcodec.DecodeMovie(root)
		assert.ErrorIs(t, err, xmlcodec.ErrMissingTitle)
	})

	t.Run("WrongRoot", func(t *testing.T) {
		root, err := xmlcodec.Parse([]byte(`<film id="tt1"><title>X</title></film>`))
		require.NoError(t, err)

		_, err = xmlcodec.DecodeMovie(root)
		assert.ErrorIs(t, err, xmlcodec.ErrBadRoot)
	})
}

func TestDecodeMovie_UnparsableNumbersAreAbsent(t *testing.T) {
	root, err := xmlcodec.Parse([]byte(
		`<movie id="tt1"><title>Soon</title><year>soon</year><rating>great</rating></movie>`))
	require.NoError(t, err)

	m, err := xmlcodec.DecodeMovie(root)
	require.NoError(t, err)
	assert.Nil(t, m.Year)
	assert.Nil(t, m.Rating)
}

func TestEncodeMovieList_Projection(t *testing.T) {
	doc := string(xmlcodec.Document(xmlcodec.EncodeMovieList([]models.Movie{
		{MovieID: "tt1", Title: "First", Director: stringPtr("Someone"), Year: intPtr(1999)},
		{MovieID: "tt2", Title: "Second"},
	})))

	assert.Contains(t, doc, "<movies>")
	assert.Contains(t, doc, `<movie id="tt1"><title>First</title></movie>`)
	assert.Contains(t, doc, `<movie id="tt2"><title>Second</title></movie>`)
	// The listing never carries the full record.
	assert.NotContains(t, doc, "<director>")
	assert.NotContains(t, doc, "<year>")
}

func TestCommentRoundTrip(t *testing.T) {
	body := "Loved it! The <ending> was wild & unexpected."
	el := xmlcodec.EncodeComment(models.Comment{
		ID:      7,
		MovieID: "tt1",
		Body:    body,
		User:    models.User{Username: "filmfan"},
	})
	doc := xmlcodec.Document(el)
	assert.Contains(t, string(doc), "<![CDATA[")

	root, err := xmlcodec.Parse(doc)
	require.NoError(t, err)

	var decoded struct {
		Body string `xml:"body"`
	}
	require.NoError(t, xmltree.Unmarshal(root, &decoded))
	assert.Equal(t, body, decoded.Body)
}

func TestDecodeComment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		root, err := xmlcodec.Parse([]byte(`<comment><body><![CDATA[Great & gritty]]></body></comment>`))
		require.NoError(t, err)

		cm, err := xmlcodec.DecodeComment(root)
		require.NoError(t, err)
		assert.Equal(t, "Great & gritty", cm.Body)
	})

	t.Run("MissingBody", func(t *testing.T) {
		root, err := xmlcodec.Parse([]byte(`<comment></comment>`))
		require.NoError(t, err)

		_, err = xmlcodec.DecodeComment(root)
		assert.ErrorIs(t, err, xmlcodec.ErrMissingBody)
	})
}

func TestDecodeRegistration(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		root, err := xmlcodec.Parse([]byte(
			`<user><username>alice</username><email>alice@example.com</email><password>s3cret-pass</password></user>`))
		require.NoError(t, err)

		reg, err := xmlcodec.DecodeRegistration(root)
		require.NoError(t, err)
		assert.Equal(t, "alice", reg.Username)
		assert.Equal(t, "alice@example.com", reg.Email)
		assert.Equal(t, "s3cret-pass", reg.Password)
	})

	t.Run("MissingFieldsAreNamed", func(t *testing.T) {
		root, err := xmlcodec.Parse([]byte(`<user><username>alice</username></user>`))
		require.NoError(t, err)

		_, err = xmlcodec.DecodeRegistration(root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email")
		assert.Contains(t, err.Error(), "password")
	})
}

func TestDecodeWatched(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		root, err := xmlcodec.Parse([]byte(
			`<watched><movieId>tt1</movieId><userRating>7.5</userRating></watched>`))
		require.NoError(t, err)

		w, err := xmlcodec.DecodeWatched(root)
		require.NoError(t, err)
		assert.Equal(t, "tt1", w.MovieID)
		require.NotNil(t, w.UserRating)
		assert.Equal(t, 7.5, *w.UserRating)
	})

	t.Run("MissingMovieRef", func(t *testing.T) {
		root, err := xmlcodec.Parse([]byte(`<watched><userRating>7.5</userRating></watched>`))
		require.NoError(t, err)

		_, err = xmlcodec.DecodeWatched(root)
		assert.ErrorIs(t, err, xmlcodec.ErrMissingMovieRef)
	})
}

func TestDocument_HasDeclaration(t *testing.T) {
	doc := string(xmlcodec.Document(xmlcodec.EncodeError("boom")))
	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, "<error><message>boom</message></error>")
}
