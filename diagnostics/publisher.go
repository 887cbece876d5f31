package diagnostics

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/c360studio/docbridge/compliance"
)

// DocumentDiagnostics is the published message for one document: the
// full diagnostics set replaces whatever was published before, so an
// empty set clears the document.
type DocumentDiagnostics struct {
	RunID       string       `json:"run_id"`
	DocumentID  string       `json:"document_id"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	PublishedAt time.Time    `json:"published_at"`
}

// Publisher publishes per-document diagnostics to NATS subjects of the
// form "<prefix>.<sanitized document id>".
type Publisher struct {
	nc     *nats.Conn
	prefix string
	logger *slog.Logger

	// published tracks documents that currently have diagnostics, so a
	// following run can clear documents that became clean.
	published map[string]bool
}

// NewPublisher creates a publisher. A nil connection disables publishing
// (graceful degradation, matching the rest of the NATS plumbing).
func NewPublisher(nc *nats.Conn, prefix string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		nc:        nc,
		prefix:    prefix,
		logger:    logger,
		published: make(map[string]bool),
	}
}

// PublishResult publishes the diagnostics of one compliance run, one
// message per document with violations plus an empty message for every
// document that had violations last run and is now clean.
func (p *Publisher) PublishResult(result *compliance.Result) error {
	if p.nc == nil {
		return nil
	}

	runID := uuid.New().String()
	now := time.Now()
	grouped := GroupByDocument(result.Violations)

	// Clear documents that recovered since the previous run.
	for docID := range p.published {
		if _, still := grouped[docID]; !still {
			if err := p.publishDocument(docID, DocumentDiagnostics{
				RunID:       runID,
				DocumentID:  docID,
				Diagnostics: []Diagnostic{},
				PublishedAt: now,
			}); err != nil {
				return err
			}
			delete(p.published, docID)
		}
	}

	for docID, diagnostics := range grouped {
		if err := p.publishDocument(docID, DocumentDiagnostics{
			RunID:       runID,
			DocumentID:  docID,
			Diagnostics: diagnostics,
			PublishedAt: now,
		}); err != nil {
			return err
		}
		p.published[docID] = true
	}

	p.logger.Debug("Published diagnostics",
		slog.String("run_id", runID),
		slog.Int("documents", len(grouped)),
		slog.Int("violations", len(result.Violations)))
	return nil
}

func (p *Publisher) publishDocument(docID string, msg DocumentDiagnostics) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal diagnostics for %s: %w", docID, err)
	}

	subject := fmt.Sprintf("%s.%s", p.prefix, SanitizeSubjectToken(docID))
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish diagnostics to %s: %w", subject, err)
	}
	return nil
}
