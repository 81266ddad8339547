package handler

import (
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"aqwari.net/xml/xmltree"

	"moviehub/internal/xmlcodec"
)

const contentTypeXML = "application/xml"

// Request bodies larger than this are rejected outright.
const maxBodyBytes = 1 << 20

func respondXML(c *gin.Context, status int, el *xmltree.Element) {
	c.Data(status, contentTypeXML, xmlcodec.Document(el))
}

func respondError(c *gin.Context, status int, message string) {
	respondXML(c, status, xmlcodec.EncodeError(message))
}

// readXMLBody enforces the XML content-type gate and reads the request
// body. It writes the 415 or 400 response itself and reports success via
// the second return value.
func readXMLBody(c *gin.Context) ([]byte, bool) {
	mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || (mediaType != "application/xml" && mediaType != "text/xml") {
		respondError(c, http.StatusUnsupportedMediaType, "request body must be application/xml")
		return nil, false
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read request body")
		return nil, false
	}
	return raw, true
}
