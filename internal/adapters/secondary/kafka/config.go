package kafka

import (
	"fmt"
	"strings"

	"github.com/IBM/sarama"
	"github.com/kelseyhightower/envconfig"
)

const ChartWarmupTopicName = "chart_warmup"

// Config одно подключение: брокеры, топик и группа консьюмеров
type Config struct {
	Brokers          string `envconfig:"BROKERS"` // "broker1:9092,broker2:9092"
	Topic            string `envconfig:"TOPIC"`
	ConsumerGroup    string `envconfig:"CONSUMER_GROUP"`
	SecurityProtocol string `envconfig:"SECURITY_PROTOCOL"` // "SASL_SSL", "SASL_PLAINTEXT", "PLAINTEXT"
	SASLMechanism    string `envconfig:"SASL_MECHANISM"`    // "PLAIN", "SCRAM-SHA-256"
	SASLUsername     string `envconfig:"SASL_USERNAME"`
	SASLPassword     string `envconfig:"SASL_PASSWORD"`
}

func (c *Config) GetBrokers() []string {
	if c.Brokers == "" {
		return []string{"localhost:9092"}
	}
	brokers := strings.Split(c.Brokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}

// NewSaramaConfig общая часть настроек для producer и consumer
func (c *Config) NewSaramaConfig() *sarama.Config {
	config := sarama.NewConfig()

	if c.SecurityProtocol == "SASL_SSL" || c.SecurityProtocol == "SASL_PLAINTEXT" {
		config.Net.SASL.Enable = true
		config.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		if c.SASLMechanism == "SCRAM-SHA-256" {
			config.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		}
		config.Net.SASL.User = c.SASLUsername
		config.Net.SASL.Password = c.SASLPassword
		config.Net.TLS.Enable = c.SecurityProtocol == "SASL_SSL"
	}

	return config
}

// KafkaConfigs список подключений, COUNT=0 отключает kafka целиком
type KafkaConfigs struct {
	Count int           `envconfig:"COUNT" default:"0"`
	List  []KafkaConfig `envconfig:"-"`
}

type KafkaConfig struct {
	Name   string  `envconfig:"NAME"` // "chart_warmup"
	Config *Config `envconfig:"CONFIG"`
}

// Load читает <PREFIX>_KAFKA_0, <PREFIX>_KAFKA_1, ...
func (kc *KafkaConfigs) Load(envPrefix string) error {
	kc.List = make([]KafkaConfig, kc.Count)
	for i := 0; i < kc.Count; i++ {
		prefix := fmt.Sprintf("%s_KAFKA_%d", envPrefix, i)
		var kafkaCfg KafkaConfig
		if err := envconfig.Process(prefix, &kafkaCfg); err != nil {
			return fmt.Errorf("failed to load kafka config %d: %w", i, err)
		}
		if kafkaCfg.Config == nil {
			kafkaCfg.Config = &Config{}
		}
		kc.List[i] = kafkaCfg
	}
	return nil
}

// Find возвращает конфиг по имени или nil
func (kc *KafkaConfigs) Find(name string) *Config {
	for _, item := range kc.List {
		if item.Name == name {
			return item.Config
		}
	}
	return nil
}
