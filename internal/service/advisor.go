package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskplanner/internal/ai"
	"taskplanner/internal/config"
	"taskplanner/internal/models"
)

// Backoff bounds between attempts: 2s, 4s, 8s with the default policy.
const (
	retryMinDelay = 2 * time.Second
	retryMaxDelay = 10 * time.Second
)

// Token caps for the two sub-requests.
const (
	categoryMaxTokens = 10
	estimateMaxTokens = 5
)

const maxSubtasks = 3

// RetryPolicy bounds attempts against the external API.
type RetryPolicy struct {
	MaxAttempts int
	MinDelay    time.Duration
	MaxDelay    time.Duration
}

// completionClient is what the advisor needs from the AI client.
type completionClient interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// AdvisorService derives task categories and duration estimates. It holds
// no per-call state: only the client, the retry policy and hooks.
type AdvisorService struct {
	client completionClient // nil means heuristics only
	retry  RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) // swapped out in tests
}

func NewAdvisorService(cfg config.AI) *AdvisorService {
	s := &AdvisorService{
		retry: RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			MinDelay:    retryMinDelay,
			MaxDelay:    retryMaxDelay,
		},
		sleep: sleepCtx,
	}
	if !cfg.UseMock {
		s.client = ai.NewClient(cfg)
	}
	return s
}

var _ Advisor = (*AdvisorService)(nil)

// Categorize picks one of the task categories for the text. Falls back to
// keyword heuristics when the API is unavailable or answers nonsense.
func (s *AdvisorService) Categorize(ctx context.Context, text string) string {
	if s.client == nil {
		return heuristicCategory(text)
	}

	prompt := fmt.Sprintf(`Task description: %q

Categorize this task into one of these categories: work, personal, health, learning, other.

Return ONLY the category name, one word.`, text)

	resp, err := s.callWithRetry(ctx, prompt, categoryMaxTokens)
	if err != nil {
		return heuristicCategory(text)
	}
	return parseCategoryResponse(resp, text)
}

// EstimateMinutes estimates the task duration in minutes, clamped to
// [1, 1440]. Same degradation policy as Categorize.
func (s *AdvisorService) EstimateMinutes(ctx context.Context, text string) int {
	if s.client == nil {
		return heuristicEstimate(text)
	}

	prompt := fmt.Sprintf(`Task description: %q

Estimate how many minutes this task will take to complete.
Consider it's a daily task in a task planner.
Return ONLY a number (integer), no text, no units.`, text)

	resp, err := s.callWithRetry(ctx, prompt, estimateMaxTokens)
	if err != nil {
		return heuristicEstimate(text)
	}
	if minutes, ok := parseMinutesResponse(resp); ok {
		return minutes
	}
	return heuristicEstimate(text)
}

// Analyze runs the category and estimate sub-requests concurrently and
// joins both, then derives subtasks, a suggested priority and tips.
// Neither sub-request can fail the operation.
func (s *AdvisorService) Analyze(ctx context.Context, description, title string) Analysis {
	fullText := description
	if title != "" {
		fullText = title + ". " + description
	}

	var (
		wg       sync.WaitGroup
		category string
		minutes  int
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		category = s.Categorize(ctx, fullText)
	}()
	go func() {
		defer wg.Done()
		minutes = s.EstimateMinutes(ctx, fullText)
	}()
	wg.Wait()

	return Analysis{
		Category:          category,
		EstimatedMinutes:  minutes,
		Subtasks:          suggestSubtasks(fullText),
		SuggestedPriority: priorityForMinutes(minutes),
		Tips: []string{
			fmt.Sprintf("Expect this to take about %d minutes", minutes),
			"Category: " + category,
			"Start with the most important part",
		},
	}
}

// callWithRetry attempts the API call up to MaxAttempts times, backing off
// exponentially between attempts (bounded by MinDelay/MaxDelay) and only
// for errors worth retrying. Context cancellation aborts the wait.
func (s *AdvisorService) callWithRetry(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt < s.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			s.sleep(ctx, s.backoffDelay(attempt))
		}

		resp, err := s.client.Complete(ctx, prompt, maxTokens)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !ai.Retryable(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("exhausted %d attempts: %w", s.retry.MaxAttempts, lastErr)
}

// backoffDelay returns min(MinDelay << (attempt-1), MaxDelay); with the
// defaults that is 2s, 4s, 8s — never decreasing.
func (s *AdvisorService) backoffDelay(attempt int) time.Duration {
	d := s.retry.MinDelay << (attempt - 1)
	if d > s.retry.MaxDelay || d <= 0 {
		return s.retry.MaxDelay
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// parseCategoryResponse maps the model's free-text answer onto a known
// category; unknown answers fall back to the heuristic.
func parseCategoryResponse(resp, text string) string {
	answer := strings.ToLower(strings.TrimSpace(resp))
	for _, c := range []string{
		models.CategoryWork,
		models.CategoryPersonal,
		models.CategoryHealth,
		models.CategoryLearning,
		models.CategoryOther,
	} {
		if strings.Contains(answer, c) {
			return c
		}
	}
	return heuristicCategory(text)
}

var firstNumberRe = regexp.MustCompile(`\d+`)

// parseMinutesResponse extracts the first integer from the model's answer.
func parseMinutesResponse(resp string) (int, bool) {
	m := firstNumberRe.FindString(resp)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return clampMinutes(n), true
}

func clampMinutes(n int) int {
	if n < models.MinEstimatedMinutes {
		return models.MinEstimatedMinutes
	}
	if n > models.MaxEstimatedMinutes {
		return models.MaxEstimatedMinutes
	}
	return n
}

// Category-indicative keyword sets for the deterministic fallback.
var (
	workKeywords     = []string{"work", "meeting", "client", "report", "presentation", "business", "office", "deadline", "email"}
	personalKeywords = []string{"family", "friend", "home", "hobby", "shopping", "birthday", "vacation", "movie"}
	healthKeywords   = []string{"gym", "workout", "doctor", "hospital", "exercise", "diet", "yoga", "dentist"}
	learningKeywords = []string{"study", "course", "book", "lecture", "learn", "school", "university", "tutorial"}
)

// heuristicCategory classifies by substring checks, first match wins:
// work, then personal, health, learning; everything else is "other".
func heuristicCategory(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, workKeywords):
		return models.CategoryWork
	case containsAny(lower, personalKeywords):
		return models.CategoryPersonal
	case containsAny(lower, healthKeywords):
		return models.CategoryHealth
	case containsAny(lower, learningKeywords):
		return models.CategoryLearning
	default:
		return models.CategoryOther
	}
}

// heuristicEstimate maps duration-indicative keywords to minute buckets.
func heuristicEstimate(text string) int {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, []string{"minute", "quick", "urgent"}):
		return 15
	case containsAny(lower, []string{"hour", "lecture", "meeting"}):
		return 60
	case containsAny(lower, []string{"half day", "several hours"}):
		return 240
	case containsAny(lower, []string{"all day", "whole day"}):
		return 480
	case containsAny(lower, []string{"big", "complex", "project", "thesis"}):
		return 120
	default:
		return 30
	}
}

// priorityForMinutes: short tasks are easy wins, long ones need a slot.
func priorityForMinutes(minutes int) string {
	switch {
	case minutes <= 15:
		return models.PriorityLow
	case minutes <= 60:
		return models.PriorityMedium
	default:
		return models.PriorityHigh
	}
}

// suggestSubtasks returns a deterministic breakdown based on the text.
func suggestSubtasks(text string) []string {
	lower := strings.ToLower(text)
	var steps []string
	switch {
	case containsAny(lower, []string{"write", "create", "draft"}):
		steps = []string{
			"Research the requirements",
			"Outline a plan",
			"Prepare a draft",
			"Review the result",
		}
	case containsAny(lower, []string{"meeting", "call"}):
		steps = []string{
			"Prepare the agenda",
			"Invite the participants",
			"Hold the meeting",
			"Write down the decisions",
		}
	default:
		steps = []string{
			"Start the work",
			"Do the main part",
			"Check the result",
			"Wrap up",
		}
	}
	return steps[:maxSubtasks]
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
