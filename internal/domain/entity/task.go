package entity

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// 任务字段约束
const (
	MaxTitleLength = 200
	MaxTagLength   = 20
	MaxTagsPerTask = 10
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title must be at most 200 characters")
	ErrTagTooLong    = errors.New("tag must be at most 20 characters")
	ErrTooManyTags   = errors.New("a task can carry at most 10 tags")
)

// Task 任务实体
type Task struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string         `json:"user_id" gorm:"type:uuid;index;not null"`
	Title     string         `json:"title" gorm:"not null"`
	Content   *string        `json:"content"`
	Tags      pq.StringArray `json:"tags" gorm:"type:text[];not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewTask 创建任务，字段经过规范化与校验
func NewTask(userID, title string, content *string, tags []string) (*Task, error) {
	t := &Task{
		ID:     uuid.NewString(),
		UserID: userID,
	}
	if err := t.Apply(&title, content, tags); err != nil {
		return nil, err
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	return t, nil
}

// Apply 以部分更新的方式写入字段，nil 表示不修改
// content 指向空白字符串时清空为 NULL；tags 为 nil 时不修改，空切片表示清空。
func (t *Task) Apply(title, content *string, tags []string) error {
	if title != nil {
		normalized, err := NormalizeTitle(*title)
		if err != nil {
			return err
		}
		t.Title = normalized
	}
	if content != nil {
		t.Content = NormalizeContent(*content)
	}
	if tags != nil {
		normalized, err := NormalizeTags(tags)
		if err != nil {
			return err
		}
		t.Tags = pq.StringArray(normalized)
	}
	if t.Tags == nil {
		t.Tags = pq.StringArray{}
	}
	return nil
}

// ContentText 返回内容文本，NULL 视为空串
func (t *Task) ContentText() string {
	if t.Content == nil {
		return ""
	}
	return *t.Content
}

// HasTag 检查任务是否带有指定标签
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// NormalizeTitle 去除空白并校验长度
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// NormalizeContent 空白内容存为 NULL
func NormalizeContent(content string) *string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	return &content
}

// NormalizeTags 逐个去除空白，丢弃空标签与重复标签（保留首次出现顺序）
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return nil, ErrTagTooLong
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) > MaxTagsPerTask {
		return nil, ErrTooManyTags
	}
	return out, nil
}
