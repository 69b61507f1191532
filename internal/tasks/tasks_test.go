package tasks

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDocumentMessage(t *testing.T) {
	pdf := []byte("%PDF-1.3 fake payload for the attachment round trip")
	raw, err := buildDocumentMessage(
		"noreply@example.com",
		"client@example.com",
		"Invoice INV-4821 from Sandpix",
		"Dear Client,\r\n\r\nPlease find attached invoice INV-4821.\r\n",
		"INVOICE_INV-4821.pdf",
		pdf,
	)
	require.NoError(t, err)

	msg := string(raw)
	headerEnd := strings.Index(msg, "\r\n\r\n")
	require.Greater(t, headerEnd, 0)

	headers := parseHeaders(t, msg[:headerEnd])
	assert.Equal(t, "noreply@example.com", headers.Get("From"))
	assert.Equal(t, "client@example.com", headers.Get("To"))
	assert.Equal(t, "Invoice INV-4821 from Sandpix", headers.Get("Subject"))
	assert.Equal(t, "1.0", headers.Get("MIME-Version"))

	mediaType, params, err := mime.ParseMediaType(headers.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)
	require.NotEmpty(t, params["boundary"])

	reader := multipart.NewReader(strings.NewReader(msg[headerEnd+4:]), params["boundary"])

	textPart, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, `text/plain; charset="UTF-8"`, textPart.Header.Get("Content-Type"))
	body, err := io.ReadAll(textPart)
	require.NoError(t, err)
	assert.Contains(t, string(body), "INV-4821")

	pdfPart, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdfPart.Header.Get("Content-Type"))
	assert.Equal(t, "base64", pdfPart.Header.Get("Content-Transfer-Encoding"))
	_, dispParams, err := mime.ParseMediaType(pdfPart.Header.Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "INVOICE_INV-4821.pdf", dispParams["filename"])

	encoded, err := io.ReadAll(pdfPart)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(pdf, decoded))

	_, err = reader.NextPart()
	assert.Equal(t, io.EOF, err)
}

func parseHeaders(t *testing.T, block string) textproto.MIMEHeader {
	t.Helper()
	tp := textproto.NewReader(bufio.NewReader(strings.NewReader(block + "\r\n\r\n")))
	headers, err := tp.ReadMIMEHeader()
	require.NoError(t, err)
	return headers
}
