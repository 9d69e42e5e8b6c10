// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/joho/godotenv"
)

// LoadEnv pulls secrets from AWS Secrets Manager (if configured) and then
// loads a local .env file. Variables already set in the environment win.
func LoadEnv(ctx context.Context, defaultEnvPath string) {
	if err := loadAWSSecretsIntoEnv(ctx); err != nil {
		slog.Warn("skipping AWS Secrets Manager load", "error", err)
	}
	loadDotEnv(defaultEnvPath)
}

func loadDotEnv(defaultEnvPath string) {
	envFile := os.Getenv("ENV_FILE_PATH")
	if envFile == "" {
		envFile = defaultEnvPath
	}

	if err := godotenv.Load(envFile); err != nil {
		slog.Debug(".env file not loaded, using process environment", "path", envFile)
	}
}

func loadAWSSecretsIntoEnv(ctx context.Context) error {
	secretID := os.Getenv("AWS_SECRETS_MANAGER_SECRET_ID")
	if secretID == "" {
		return nil
	}

	region := os.Getenv("AWS_SECRETS_MANAGER_REGION")
	versionStage := os.Getenv("AWS_SECRETS_MANAGER_VERSION_STAGE")
	if versionStage == "" {
		versionStage = "AWSCURRENT"
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("loading AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(cfg)
	output, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String(versionStage),
	})
	if err != nil {
		return fmt.Errorf("fetching secret %s: %w", secretID, err)
	}

	var payload string
	switch {
	case output.SecretString != nil:
		payload = *output.SecretString
	case len(output.SecretBinary) > 0:
		payload = string(output.SecretBinary)
	default:
		return fmt.Errorf("secret %s has no payload", secretID)
	}

	applied, err := applySecretPayload(payload)
	if err != nil {
		return fmt.Errorf("parsing secret %s: %w", secretID, err)
	}

	slog.Info("loaded env vars from AWS Secrets Manager", "secret_id", secretID, "count", applied)
	return nil
}

// applySecretPayload sets each key of a flat JSON object that is not already
// present in the environment
func applySecretPayload(payload string) (int, error) {
	var kv map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &kv); err != nil {
		return 0, err
	}

	overwrite := strings.EqualFold(os.Getenv("AWS_SECRETS_MANAGER_OVERWRITE"), "true")

	applied := 0
	for key, val := range kv {
		if !overwrite && os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return applied, fmt.Errorf("setting env %s: %w", key, err)
		}
		applied++
	}
	return applied, nil
}
