package elasticsearch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/goto/finder/pkg/statsd"
	"github.com/goto/salt/log"
	"github.com/newrelic/go-agent/v3/integrations/nrelasticsearch-v7"
)

const defaultMaxResults = 200

type Config struct {
	Brokers     string `yaml:"brokers" mapstructure:"brokers" default:"http://localhost:9200"`
	IndexPrefix string `yaml:"index_prefix" mapstructure:"index_prefix" default:""`
	MaxResults  int    `yaml:"max_results" mapstructure:"max_results" default:"200"`
}

// extract error type and reason from an elasticsearch response
// returns the raw message in case it fails
func errorCodeAndReason(res *esapi.Response) (string, string) {
	var (
		response struct {
			Error struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		}
		copy bytes.Buffer
	)
	reader := io.TeeReader(res.Body, &copy)
	if err := json.NewDecoder(reader).Decode(&response); err != nil || response.Error.Reason == "" {
		return "", fmt.Sprintf("raw response = %s", copy.String())
	}
	return response.Error.Type, response.Error.Reason
}

// helper for decorating unsuccesful invocations of the es REST API
// (transport errors)
func elasticSearchError(err error) error {
	return fmt.Errorf("elasticsearch error: %w", err)
}

func drainBody(res *esapi.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}

type Client struct {
	client *elasticsearch.Client
	logger log.Logger
	statsd *statsd.Reporter
	config Config
}

func NewClient(logger log.Logger, config Config, opts ...ClientOption) (*Client, error) {
	c := &Client{
		logger: logger,
		config: config,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client != nil {
		return c, nil
	}

	brokers := strings.Split(config.Brokers, ",")
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: brokers,
		Transport: nrelasticsearch.NewRoundTripper(nil),
	})
	if err != nil {
		return nil, err
	}
	c.client = esClient

	return c, nil
}

// Init checks the cluster is reachable and describes it
func (c *Client) Init() (string, error) {
	res, err := c.client.Info()
	if err != nil {
		return "", elasticSearchError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return "", errors.New(res.Status())
	}
	var info = struct {
		ClusterName string `json:"cluster_name"`
		Version     struct {
			Number string `json:"number"`
		} `json:"version"`
	}{}

	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return "", err
	}

	return fmt.Sprintf("%q (server version %s)", info.ClusterName, info.Version.Number), nil
}

// indexName maps an object type to the index holding its records
func (c *Client) indexName(object string) string {
	return c.config.IndexPrefix + strings.ToLower(object)
}

func (c *Client) maxResults() int {
	if c.config.MaxResults > 0 {
		return c.config.MaxResults
	}
	return defaultMaxResults
}

func (c *Client) instrumentOp(op string, start time.Time, err error) {
	m := c.statsd.Timing("elasticsearch."+op, time.Since(start))
	if err != nil {
		m.Failure(err)
	} else {
		m.Success()
	}
	m.Publish()
}
