package httpserver

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	appai "github.com/bryanwahyu/millwatt/internal/application/ai"
	"github.com/bryanwahyu/millwatt/internal/domain/ai"
	"github.com/bryanwahyu/millwatt/internal/middleware"
)

// upload is one media file received from the client.
type upload struct {
	Data     []byte
	MimeType string
	Locale   ai.Locale
}

// readUpload accepts multipart/form-data with a "file" part, or a JSON body
// {"data": "<base64 or data URL>", "mimeType": "...", "locale": "en"}.
// The locale may also come from the ?locale= query parameter.
func (r *Router) readUpload(w http.ResponseWriter, req *http.Request, kind middleware.MediaKind) (*upload, error) {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxUpload)

	ct, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	var (
		up     *upload
		locale string
		err    error
	)
	switch ct {
	case "multipart/form-data":
		up, locale, err = r.readMultipart(req)
	case "application/json":
		up, locale, err = readEncoded(req)
	default:
		return nil, errBadRequest("expected multipart/form-data or application/json body")
	}
	if err != nil {
		return nil, err
	}
	if len(up.Data) == 0 {
		return nil, errBadRequest("media file is empty")
	}

	if q := req.URL.Query().Get("locale"); q != "" && locale == "" {
		locale = q
	}
	if up.Locale, err = ai.ParseLocale(locale); err != nil {
		return nil, err
	}

	up.MimeType = resolveMimeType(up.MimeType, up.Data)
	if err := middleware.ValidateMediaType(kind, up.MimeType); err != nil {
		return nil, errBadRequest(err.Error())
	}
	return up, nil
}

func (r *Router) readMultipart(req *http.Request) (*upload, string, error) {
	if err := req.ParseMultipartForm(r.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", err
		}
		return nil, "", errBadRequest("invalid multipart body: " + err.Error())
	}
	f, hdr, err := req.FormFile("file")
	if err != nil {
		return nil, "", errBadRequest(`missing "file" part`)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return &upload{Data: data, MimeType: hdr.Header.Get("Content-Type")}, req.FormValue("locale"), nil
}

func readEncoded(req *http.Request) (*upload, string, error) {
	var body struct {
		Data     string `json:"data"`
		MimeType string `json:"mimeType"`
		Locale   string `json:"locale"`
	}
	if err := decodeJSON(req, &body); err != nil {
		return nil, "", err
	}
	part, err := appai.FromEncoded(body.Data, body.MimeType)
	if err != nil {
		return nil, "", err
	}
	data, err := appai.Decode(part)
	if err != nil {
		return nil, "", errBadRequest("media payload is not base64")
	}
	return &upload{Data: data, MimeType: part.MimeType}, body.Locale, nil
}

// resolveMimeType keeps the declared type unless it is missing or generic,
// in which case the content is sniffed.
func resolveMimeType(declared string, data []byte) string {
	base := middleware.BaseMediaType(declared)
	if base != "" && base != "application/octet-stream" {
		return strings.TrimSpace(declared)
	}
	return mimetype.Detect(data).String()
}
