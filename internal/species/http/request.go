package http

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/terraverde/terraverde-api/internal/apperror"
	"github.com/terraverde/terraverde-api/internal/species/domain"
	"github.com/terraverde/terraverde-api/internal/species/normalize"
)

const maxMultipartMemory = 32 << 20

var (
	keysFiles      = []string{"images", "images[]", "imagenes", "imagenes[]"}
	keysKeepImages = []string{"keep_images", "keepImages", "keepingImages", "imagenes_mantener"}
	keysDropImages = []string{"delete_images", "deleteImages", "imagesToDelete", "imagenes_eliminar"}
	keysNested     = []string{"coordinates", "coordenadas"}
)

type speciesRequest struct {
	patch   domain.SpeciesPatch
	changes domain.ImageChanges
}

// readSpeciesRequest accepts a JSON body, a urlencoded form or a multipart
// form carrying image files.
func readSpeciesRequest(c *gin.Context) (speciesRequest, error) {
	var (
		fields map[string]any
		req    speciesRequest
		err    error
	)

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		fields, req.changes, err = readMultipart(c)
	case gin.MIMEPOSTForm:
		fields, req.changes, err = readForm(c)
	default:
		fields, req.changes, err = readJSON(c)
	}
	if err != nil {
		return speciesRequest{}, err
	}

	req.patch, err = normalize.PatchFromMap(fields)
	if err != nil {
		return speciesRequest{}, err
	}
	return req, nil
}

func readJSON(c *gin.Context) (map[string]any, domain.ImageChanges, error) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, domain.ImageChanges{}, apperror.Validation("invalid JSON body")
	}

	var ch domain.ImageChanges
	if v, ok := normalize.Lookup(body, keysKeepImages...); ok {
		ch.Keep = idList(v)
	}
	if v, ok := normalize.Lookup(body, keysDropImages...); ok {
		ch.Delete = idList(v)
	}
	return body, ch, nil
}

func readForm(c *gin.Context) (map[string]any, domain.ImageChanges, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, domain.ImageChanges{}, apperror.Validation("invalid form body")
	}
	fields, ch := formFields(c.Request.PostForm)
	return fields, ch, nil
}

func readMultipart(c *gin.Context) (map[string]any, domain.ImageChanges, error) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, domain.ImageChanges{}, apperror.Validation("invalid multipart form")
	}
	form := c.Request.MultipartForm

	fields, ch := formFields(form.Value)
	for _, key := range keysFiles {
		for _, fh := range form.File[key] {
			u, err := uploadFromHeader(fh)
			if err != nil {
				return nil, domain.ImageChanges{}, err
			}
			ch.Uploads = append(ch.Uploads, u)
		}
	}
	return fields, ch, nil
}

// formFields flattens form values to their first entry. A coordinates field
// holding a JSON object is decoded so nested keys resolve.
func formFields(values map[string][]string) (map[string]any, domain.ImageChanges) {
	fields := make(map[string]any, len(values))
	var ch domain.ImageChanges

	for key, vs := range values {
		switch {
		case key == "_method":
		case contains(keysKeepImages, key):
			ch.Keep = formList(vs)
		case contains(keysDropImages, key):
			ch.Delete = formList(vs)
		case len(vs) > 0:
			fields[key] = vs[0]
		}
	}

	for _, key := range keysNested {
		s, ok := fields[key].(string)
		if !ok {
			continue
		}
		var nested map[string]any
		if err := json.Unmarshal([]byte(s), &nested); err == nil {
			fields[key] = nested
		}
	}
	return fields, ch
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// formList reads ids sent as repeated fields, a comma separated value or a
// JSON array. The result is non-nil so an empty list still means "keep none".
func formList(vs []string) []string {
	out := []string{}
	for _, v := range vs {
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "[") {
			var ids []string
			if err := json.Unmarshal([]byte(v), &ids); err == nil {
				out = appendIDs(out, ids...)
				continue
			}
		}
		out = appendIDs(out, strings.Split(v, ",")...)
	}
	return out
}

func idList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = appendIDs(out, s)
			}
		}
	case string:
		out = formList([]string{t})
	}
	return out
}

func appendIDs(out []string, ids ...string) []string {
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// uploadFromHeader sniffs the file content instead of trusting the client's
// declared type.
func uploadFromHeader(fh *multipart.FileHeader) (domain.Upload, error) {
	contentType := fh.Header.Get("Content-Type")
	if fh.Size > 0 {
		f, err := fh.Open()
		if err != nil {
			return domain.Upload{}, apperror.Validation("cannot read image %q", fh.Filename)
		}
		mt, err := mimetype.DetectReader(f)
		f.Close()
		if err == nil {
			contentType = mt.String()
		}
	}

	return domain.Upload{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}
