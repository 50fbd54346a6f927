package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	awscloud "github.com/plus3it/delete-default-cloudtrail/internal/cloud/aws"
	"github.com/plus3it/delete-default-cloudtrail/internal/cleanup"
	"github.com/plus3it/delete-default-cloudtrail/internal/models"
)

func main() {
	// Local development convenience; absent .env files are fine.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "delete-cloudtrail",
		Usage: "Delete the default CloudTrail trail and its S3 bucket in a target account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "target-account-id",
				Usage:    "Account number to delete default cloudtrail resources in",
				Required: true,
				EnvVars:  []string{"TARGET_ACCOUNT_ID"},
			},
			&cli.StringFlag{
				Name:    "assume-role-arn",
				Usage:   "ARN of IAM role to assume in the target account (case sensitive)",
				EnvVars: []string{"ASSUME_ROLE_ARN"},
			},
			&cli.StringFlag{
				Name:    "assume-role-name",
				Usage:   "Name of IAM role to assume in the target account (case sensitive)",
				EnvVars: []string{"ASSUME_ROLE_NAME"},
			},
			&cli.StringFlag{
				Name:    "cloudtrail-name-prefix",
				Usage:   "Trail name prefix to match",
				Value:   models.DefaultTrailNamePrefix,
				EnvVars: []string{"CLOUDTRAIL_NAME_PREFIX"},
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Usage:   "Simulate deletions instead of performing them",
				Value:   true,
				EnvVars: []string{"DRY_RUN"},
			},
			&cli.BoolFlag{
				Name:    "error-not-found",
				Usage:   "Treat a missing trail as a hard error",
				Value:   true,
				EnvVars: []string{"ERROR_NOT_FOUND"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log verbosity (error, warning, info, debug)",
				Value:   models.DefaultLogLevel,
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "profile",
				Usage: "AWS credential profile name (e.g., dev, prod)",
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "AWS region override",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Skip the live-mode confirmation prompt",
			},
		},
		Action: runCleanup,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func runCleanup(c *cli.Context) error {
	roleARN := c.String("assume-role-arn")
	roleName := c.String("assume-role-name")
	if (roleARN == "") == (roleName == "") {
		return cli.Exit("exactly one of --assume-role-arn or --assume-role-name is required", 2)
	}

	logger := logrus.New()
	logger.SetLevel(models.ParseLogLevel(c.String("log-level")))

	accountID := c.String("target-account-id")
	dryRun := c.Bool("dry-run")

	// Live runs are destructive and cannot be undone; ask first unless
	// --force was given for non-interactive use.
	if !dryRun && !c.Bool("force") {
		var confirmed bool
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Delete the default cloudtrail and its S3 bucket in account %s?", accountID),
		}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Deletion cancelled")
			return nil
		}
	}

	ctx := context.Background()
	provider, err := awscloud.NewProvider(ctx,
		awscloud.WithProfile(c.String("profile")),
		awscloud.WithRegion(c.String("region")),
	)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	result := cleanup.New(provider, logger).Run(ctx, cleanup.Options{
		Target: models.TargetAccount{
			AccountID: accountID,
			RoleARN:   roleARN,
			RoleName:  roleName,
		},
		TrailPrefix:   c.String("cloudtrail-name-prefix"),
		DryRun:        dryRun,
		ErrorNotFound: c.Bool("error-not-found"),
	})
	if result.Err != nil {
		return cli.Exit(result.Err.Error(), 1)
	}

	switch result.Outcome {
	case models.OutcomeDeleted:
		fmt.Printf("Deleted trail %s and bucket %s\n", result.TrailName, result.BucketName)
	case models.OutcomeSkippedDryRun:
		fmt.Printf("Dry run: would delete trail %s and bucket %s\n", result.TrailName, result.BucketName)
	case models.OutcomeNotFound:
		fmt.Println("No matching trail found; nothing to delete")
	}
	return nil
}
