/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	tserrors "github.com/suparena/tablestore/errors"
)

// Default key schema and retry settings.
const (
	defaultPartitionKeyAttribute = "PK"
	defaultRowKeyAttribute       = "RK"
	defaultRowKeyIndexName       = "RowKeyIndex"
	defaultRetryMaxAttempts      = 3
	defaultRetryBaseDelay        = time.Second
)

// Config carries everything needed to bind a store to one DynamoDB table.
type Config struct {
	// TableName is the DynamoDB table holding the records.
	TableName string

	// Region selects the AWS region. Required unless a client is supplied
	// directly through New.
	Region string

	// AccessKey and SecretKey configure static credentials. Leave both
	// empty to use the ambient AWS credential chain.
	AccessKey string
	SecretKey string

	// Endpoint overrides the service endpoint, typically for local testing.
	Endpoint string

	// PartitionKeyAttribute and RowKeyAttribute name the table's key
	// attributes. Defaults: "PK" and "RK".
	PartitionKeyAttribute string
	RowKeyAttribute       string

	// RowKeyIndexName names the global secondary index keyed by row key,
	// used for row-key lookups across partitions. Default: "RowKeyIndex".
	RowKeyIndexName string

	// RetryMaxAttempts is the total number of attempts per call, including
	// the first. Default: 3.
	RetryMaxAttempts int

	// RetryBaseDelay seeds the exponential backoff between retries.
	// Default: 1s.
	RetryBaseDelay time.Duration
}

func (c *Config) normalize() {
	if c.PartitionKeyAttribute == "" {
		c.PartitionKeyAttribute = defaultPartitionKeyAttribute
	}
	if c.RowKeyAttribute == "" {
		c.RowKeyAttribute = defaultRowKeyAttribute
	}
	if c.RowKeyIndexName == "" {
		c.RowKeyIndexName = defaultRowKeyIndexName
	}
	if c.RetryMaxAttempts == 0 {
		c.RetryMaxAttempts = defaultRetryMaxAttempts
	}
	if c.RetryBaseDelay == 0 {
		c.RetryBaseDelay = defaultRetryBaseDelay
	}
}

func (c *Config) validateTable() error {
	if strings.TrimSpace(c.TableName) == "" {
		return tserrors.NewValidationError("tableName", "must not be blank")
	}
	if c.RetryMaxAttempts < 0 {
		return tserrors.NewValidationError("retryMaxAttempts", "must not be negative")
	}
	if c.RetryBaseDelay < 0 {
		return tserrors.NewValidationError("retryBaseDelay", "must not be negative")
	}
	return nil
}

func (c *Config) validateConnection() error {
	if strings.TrimSpace(c.Region) == "" {
		return tserrors.NewValidationError("region", "must not be blank")
	}
	return nil
}

// schema returns the table schema this configuration describes.
func (c *Config) schema() TableSchema {
	return TableSchema{
		TableName:             c.TableName,
		PartitionKeyAttribute: c.PartitionKeyAttribute,
		RowKeyAttribute:       c.RowKeyAttribute,
		RowKeyIndexName:       c.RowKeyIndexName,
	}
}

// retryer builds the standard retryer implementing the configured policy.
func (c *Config) retryer() aws.Retryer {
	maxBackoff := c.RetryBaseDelay * time.Duration(1<<uint(c.RetryMaxAttempts))
	return retry.NewStandard(func(o *retry.StandardOptions) {
		o.MaxAttempts = c.RetryMaxAttempts
		o.Backoff = retry.NewExponentialJitterBackoff(maxBackoff)
	})
}

// NewClient initializes a DynamoDB client for the given configuration.
func NewClient(ctx context.Context, c Config) (*sdk.Client, error) {
	c.normalize()
	if err := c.validateConnection(); err != nil {
		return nil, err
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
		config.WithRetryer(func() aws.Retryer { return c.retryer() }),
	}
	if c.AccessKey != "" || c.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	})

	slog.Debug("dynamodb client initialized", "region", c.Region, "table", c.TableName)
	return client, nil
}
