package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const defaultExamFeedURL = "https://api.sampleapis.com/fake-exams/exams"

// ExamImporterConfig configures the remote exam feed importer
type ExamImporterConfig struct {
	FeedURL    string
	HTTPClient *http.Client
}

// ExamImporter pulls exam records from a remote feed and persists them. Each
// record is saved individually; a bad record aborts the import and surfaces
// the feed error to the caller.
type ExamImporter struct {
	feedURL    string
	httpClient *http.Client
	repo       RepositoryManager
	logger     Logger
}

// NewExamImporter creates an importer backed by the given repositories
func NewExamImporter(repo RepositoryManager, cfg ExamImporterConfig) *ExamImporter {
	if cfg.FeedURL == "" {
		cfg.FeedURL = defaultExamFeedURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &ExamImporter{
		feedURL:    cfg.FeedURL,
		httpClient: client,
		repo:       repo,
		logger:     defLogger{},
	}
}

func (i *ExamImporter) WithLogger(l Logger) *ExamImporter {
	if l != nil {
		i.logger = l
	}
	return i
}

// Import fetches the feed and saves every exam it returns. It reports how
// many exams were persisted.
func (i *ExamImporter) Import(ctx context.Context, createdBy uuid.UUID) (int, error) {
	records, err := i.fetch(ctx)
	if err != nil {
		return 0, err
	}

	saved := 0
	for _, record := range records {
		exam := record.toExam(createdBy)
		if _, err := i.repo.Exams().Create(ctx, exam); err != nil {
			return saved, errors.Wrap(err, errors.CategoryInternal, "failed to save imported exam").
				WithMetadata(map[string]any{"exam_name": exam.ExamName})
		}
		saved++
	}

	i.logger.Info("imported %d exams from feed", saved)

	return saved, nil
}

func (i *ExamImporter) fetch(ctx context.Context) ([]examFeedRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.feedURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build feed request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "exam feed request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read feed response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(
			fmt.Sprintf("exam feed returned status %d", resp.StatusCode),
			errors.CategoryOperation,
		).WithMetadata(map[string]any{"url": i.feedURL, "status": resp.StatusCode})
	}

	var records []examFeedRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to decode feed response")
	}

	return records, nil
}

// examFeedRecord mirrors the remote feed's document shape
type examFeedRecord struct {
	ExamName  string     `json:"examName"`
	Subject   string     `json:"subject"`
	ExamDate  string     `json:"examDate"`
	Duration  int        `json:"duration"`
	Questions []Question `json:"questions"`
}

func (r examFeedRecord) toExam(createdBy uuid.UUID) *Exam {
	examDate := time.Now()
	if r.ExamDate != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, r.ExamDate); err == nil {
				examDate = parsed
				break
			}
		}
	}

	return &Exam{
		ExamName:  r.ExamName,
		Subject:   r.Subject,
		ExamDate:  examDate,
		Duration:  r.Duration,
		Questions: r.Questions,
		CreatedBy: createdBy,
	}
}
