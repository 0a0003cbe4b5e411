package config

type ClassifierConfig struct {
	// ModelFile is where the trained model is persisted and loaded from.
	ModelFile string `yaml:"model_file" json:"model_file" envconfig:"MODEL_FILE" default:"event_classifier_model.bin"`
	// TrainingFile overrides the bundled training corpus. Lines are
	// tab-separated: label, then text.
	TrainingFile string `yaml:"training_file" json:"training_file" envconfig:"TRAINING_FILE"`
}

func (cfg ClassifierConfig) Validate() error {
	return nil
}
