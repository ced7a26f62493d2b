package elasticsearch

import (
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/goto/finder/pkg/statsd"
)

type ClientOption func(*Client)

func WithClient(cli *elasticsearch.Client) ClientOption {
	return func(c *Client) {
		c.client = cli
	}
}

func WithStatsDReporter(reporter *statsd.Reporter) ClientOption {
	return func(c *Client) {
		c.statsd = reporter
	}
}
