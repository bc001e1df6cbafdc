// game/questions.go
package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/maxiusi3/wordchallenge-sub000/models"
)

// ErrNoQuestions 题库里没有匹配的题目
var ErrNoQuestions = errors.New("no questions available for cohort/level")

// QuestionSource 是题库协作方接口。同一会话内不重复出题
// 由题库负责。
type QuestionSource interface {
	NextQuestion(cohort string, level int) (models.Question, error)
}

// EventSink 接收核心发出的UI/音效事件。实现必须是即发即弃的，
// 核心从不等待它。
type EventSink interface {
	Dispatch(event string, fields map[string]interface{})
}

// BankSource 是基于静态题库的 QuestionSource 实现
type BankSource struct {
	buckets map[string][]models.Question // cohort|level -> questions
	served  map[string]map[string]struct{}
	rng     *rand.Rand
	mutex   sync.Mutex
}

func bucketKey(cohort string, level int) string {
	return fmt.Sprintf("%s|%d", cohort, level)
}

// NewBankSource 从JSON文件加载题库。path为空时使用内置的小题库。
func NewBankSource(path string) (*BankSource, error) {
	questions := builtinBank()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		questions = nil
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, err
		}
	}

	s := &BankSource{
		buckets: make(map[string][]models.Question),
		served:  make(map[string]map[string]struct{}),
		rng:     rand.New(rand.NewSource(rand.Int63())),
	}
	for _, q := range questions {
		key := bucketKey(q.Cohort, q.Level)
		s.buckets[key] = append(s.buckets[key], q)
	}
	return s, nil
}

// NextQuestion 随机选取一道尚未出过的题。整个桶出完后重置。
func (s *BankSource) NextQuestion(cohort string, level int) (models.Question, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := bucketKey(cohort, level)
	bucket := s.buckets[key]
	if len(bucket) == 0 {
		return models.Question{}, ErrNoQuestions
	}

	seen := s.served[key]
	if seen == nil {
		seen = make(map[string]struct{})
		s.served[key] = seen
	}

	var fresh []models.Question
	for _, q := range bucket {
		if _, dup := seen[q.ID]; !dup {
			fresh = append(fresh, q)
		}
	}
	if len(fresh) == 0 {
		// 桶已出完，重置后重新开始
		seen = make(map[string]struct{})
		s.served[key] = seen
		fresh = bucket
	}

	q := fresh[s.rng.Intn(len(fresh))]
	seen[q.ID] = struct{}{}
	return q, nil
}

func builtinBank() []models.Question {
	var questions []models.Question
	words := map[string][]string{
		"g5": {"apple", "banana", "castle", "dragon", "engine", "forest", "guitar", "harbor"},
		"g9": {"abundant", "bachelor", "calendar", "delicate", "emphasis", "frequent", "gratitude", "hesitate"},
	}
	for cohort, list := range words {
		for level := 1; level <= 3; level++ {
			for i, w := range list {
				questions = append(questions, models.Question{
					ID:     fmt.Sprintf("%s-%d-%d", cohort, level, i),
					Cohort: cohort,
					Level:  level,
					Prompt: fmt.Sprintf("Spell the word: %s", w),
					Answer: w,
				})
			}
		}
	}
	return questions
}
