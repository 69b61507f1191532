package tasks

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/textproto"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ihsaan797/InvoiceME/internal/config"
	"github.com/ihsaan797/InvoiceME/internal/email"
	"github.com/ihsaan797/InvoiceME/internal/models"
	"github.com/ihsaan797/InvoiceME/internal/render"
	"github.com/ihsaan797/InvoiceME/internal/services"
	"github.com/ihsaan797/InvoiceME/internal/storage"
)

// Task types.
const (
	TypeDocumentEmail = "email:document"
	TypeExpireSweep   = "document:expire_sweep"
)

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// DocumentEmailPayload asks the worker to render a document and mail it as a
// PDF attachment.
type DocumentEmailPayload struct {
	DocumentID string `json:"document_id"`
	To         string `json:"to"`
}

// Enqueuer is the slice of the asynq client the API layer needs. Handler
// tests substitute a mock for the concrete client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueDocumentEmail queues a send-document job.
func EnqueueDocumentEmail(ctx context.Context, client Enqueuer, documentID, to string) error {
	payload, err := json.Marshal(DocumentEmailPayload{DocumentID: documentID, To: to})
	if err != nil {
		return fmt.Errorf("failed to marshal document email payload: %w", err)
	}
	task := asynq.NewTask(TypeDocumentEmail, payload)
	if _, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue document email task: %w", err)
	}
	return nil
}

// --- Task Server (Processing tasks) ---

// TaskProcessor holds the dependencies the task handlers need.
type TaskProcessor struct {
	cfg            *config.Config
	emailSender    email.Sender
	documents      services.IDocumentService
	business       services.IBusinessService
	storageService storage.IS3Storage
}

func NewTaskProcessor(
	cfg *config.Config,
	emailSender email.Sender,
	documents services.IDocumentService,
	business services.IBusinessService,
	storageService storage.IS3Storage,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:            cfg,
		emailSender:    emailSender,
		documents:      documents,
		business:       business,
		storageService: storageService,
	}
}

// SetupServer configures and returns an Asynq server with the handlers
// registered. The caller runs it.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"default": 3,
				"low":     1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDocumentEmail, processor.HandleDocumentEmailTask)
	mux.HandleFunc(TypeExpireSweep, processor.HandleExpireSweepTask)
	return srv, mux
}

// NewScheduler returns a scheduler that fires the quotation expiry sweep at
// the configured interval.
func NewScheduler(rdb *redis.Client, interval time.Duration) (*asynq.Scheduler, error) {
	schedulerOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	scheduler := asynq.NewScheduler(schedulerOpt, nil)
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeExpireSweep, nil), asynq.Queue("low")); err != nil {
		return nil, fmt.Errorf("failed to register expiry sweep: %w", err)
	}
	return scheduler, nil
}

// --- Task Handlers ---

// HandleDocumentEmailTask renders the document to PDF and mails it to the
// requested recipient with the PDF attached.
func (p *TaskProcessor) HandleDocumentEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload DocumentEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal document email payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.To == "" {
		return fmt.Errorf("document email payload has no recipient: %w", asynq.SkipRetry)
	}

	doc, err := p.documents.FindByID(ctx, payload.DocumentID)
	if err != nil {
		log.Printf("Document %s not found for email task: %v", payload.DocumentID, err)
		return fmt.Errorf("document not found: %w", asynq.SkipRetry)
	}
	profile, err := p.business.Get(ctx)
	if err != nil {
		return err
	}

	// An unusable logo drops the image, it never blocks the send.
	var logo *render.Logo
	if profile.LogoKey != "" && p.storageService != nil {
		if data, err := p.storageService.FetchLogo(ctx, profile.LogoKey); err == nil {
			if decoded, err := render.DecodeLogo(data); err == nil {
				logo = decoded
			}
		} else {
			log.Printf("Failed to fetch logo %s, sending without it: %v", profile.LogoKey, err)
		}
	}

	pdf, err := render.RenderPDF(render.LayoutPages(*doc, *profile, logo))
	if err != nil {
		return fmt.Errorf("failed to render document %s: %w", doc.ID, err)
	}

	kindLabel := "Invoice"
	if doc.Kind == models.KindQuotation {
		kindLabel = "Quotation"
	}
	subject := fmt.Sprintf("%s %s from %s", kindLabel, doc.Number, profile.Name)
	body := fmt.Sprintf("Dear %s,\r\n\r\nPlease find attached %s %s.\r\n\r\nRegards,\r\n%s\r\n",
		doc.ClientName, strings.ToLower(kindLabel), doc.Number, profile.Name)
	filename := fmt.Sprintf("%s_%s.pdf", doc.Kind, doc.Number)

	raw, err := buildDocumentMessage(p.cfg.SmtpFromAddress, payload.To, subject, body, filename, pdf)
	if err != nil {
		return err
	}
	return p.emailSender.Send(ctx, []string{payload.To}, subject, raw)
}

// HandleExpireSweepTask expires overdue sent quotations.
func (p *TaskProcessor) HandleExpireSweepTask(ctx context.Context, t *asynq.Task) error {
	n, err := p.documents.ExpireOverdueQuotations(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("Expiry sweep: %d quotation(s) expired.", n)
	}
	return nil
}

// buildDocumentMessage assembles a multipart/mixed message with a plain-text
// body and one base64 PDF attachment.
func buildDocumentMessage(from, to, subject, body, filename string, pdf []byte) ([]byte, error) {
	var sb strings.Builder
	var attachments strings.Builder
	writer := multipart.NewWriter(&attachments)

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", `text/plain; charset="UTF-8"`)
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create text part: %w", err)
	}
	if _, err := textPart.Write([]byte(body)); err != nil {
		return nil, fmt.Errorf("failed to write text part: %w", err)
	}

	pdfHeader := textproto.MIMEHeader{}
	pdfHeader.Set("Content-Type", "application/pdf")
	pdfHeader.Set("Content-Transfer-Encoding", "base64")
	pdfHeader.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	pdfPart, err := writer.CreatePart(pdfHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment part: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(pdf)
	for len(encoded) > 0 {
		n := 76
		if len(encoded) < n {
			n = len(encoded)
		}
		if _, err := pdfPart.Write([]byte(encoded[:n] + "\r\n")); err != nil {
			return nil, fmt.Errorf("failed to write attachment: %w", err)
		}
		encoded = encoded[n:]
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize message: %w", err)
	}

	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", writer.Boundary()))
	sb.WriteString("\r\n")
	sb.WriteString(attachments.String())
	return []byte(sb.String()), nil
}
