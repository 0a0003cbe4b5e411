// Package classifier assigns a category label to free-text event
// descriptions using a naive-Bayes text model. The model is trained once
// from a labeled corpus and persisted for subsequent runs.
package classifier

import (
	"bufio"
	"bytes"
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jbrukh/bayesian"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/config"
)

//go:embed corpus/event_data.train
var bundledCorpus []byte

// Classifier lazily loads or trains the model on first use; loading happens
// at most once per process lifetime.
type Classifier struct {
	cfg *config.ClassifierConfig
	log *zap.SugaredLogger

	once  sync.Once
	model *bayesian.Classifier
	err   error
}

func New(cfg *config.ClassifierConfig, log *zap.SugaredLogger) *Classifier {
	return &Classifier{
		cfg: cfg,
		log: log,
	}
}

// Predict returns the best category label for text. A missing training
// corpus is unrecoverable; there is no sensible default category.
func (c *Classifier) Predict(text string) (string, error) {
	c.once.Do(func() {
		c.model, c.err = c.loadOrTrain()
	})
	if c.err != nil {
		return "", c.err
	}

	tokens := strings.Fields(text)
	_, inx, _ := c.model.LogScores(tokens)
	return string(c.model.Classes[inx]), nil
}

func (c *Classifier) loadOrTrain() (*bayesian.Classifier, error) {
	if model, err := bayesian.NewClassifierFromFile(c.cfg.ModelFile); err == nil {
		c.log.Infof("loaded classifier model from %s", c.cfg.ModelFile)
		return model, nil
	}

	c.log.Info("no persisted classifier model found, training a new one")
	model, err := c.train()
	if err != nil {
		return nil, err
	}

	if err := c.persist(model); err != nil {
		// training succeeded; failing to cache the model is not fatal
		c.log.Warnf("failed to persist classifier model: %v", err)
	}
	return model, nil
}

func (c *Classifier) train() (*bayesian.Classifier, error) {
	corpus, err := c.openCorpus()
	if err != nil {
		return nil, err
	}
	defer corpus.Close()

	samples, classes, err := readSamples(corpus)
	if err != nil {
		return nil, err
	}
	if len(classes) < 2 {
		return nil, errors.New("training corpus must contain at least two categories")
	}

	model := bayesian.NewClassifier(classes...)
	for _, sample := range samples {
		model.Learn(strings.Fields(sample.text), sample.class)
	}
	c.log.Infof("trained classifier on %d samples across %d categories", len(samples), len(classes))
	return model, nil
}

func (c *Classifier) openCorpus() (io.ReadCloser, error) {
	if c.cfg.TrainingFile == "" {
		return io.NopCloser(bytes.NewReader(bundledCorpus)), nil
	}
	f, err := os.Open(c.cfg.TrainingFile)
	if err != nil {
		return nil, errors.Wrapf(err, "training corpus %s not found", c.cfg.TrainingFile)
	}
	return f, nil
}

func (c *Classifier) persist(model *bayesian.Classifier) error {
	if dir := filepath.Dir(c.cfg.ModelFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := model.WriteToFile(c.cfg.ModelFile); err != nil {
		return err
	}
	c.log.Infof("classifier model saved to %s", c.cfg.ModelFile)
	return nil
}

type sample struct {
	class bayesian.Class
	text  string
}

// readSamples parses one tab-separated labeled example per line; classes are
// returned in first-seen order.
func readSamples(r io.Reader) ([]sample, []bayesian.Class, error) {
	var samples []sample
	var classes []bayesian.Class
	seen := make(map[bayesian.Class]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		label, text, found := strings.Cut(line, "\t")
		if !found {
			// tolerate the original corpus format with a literal escape
			label, text, found = strings.Cut(line, "\\t")
		}
		if !found || label == "" || text == "" {
			continue
		}
		class := bayesian.Class(label)
		if !seen[class] {
			seen[class] = true
			classes = append(classes, class)
		}
		samples = append(samples, sample{class: class, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, errors.New("training corpus is empty")
	}
	return samples, classes, nil
}
