package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/suparena/tablestore"
	"github.com/suparena/tablestore/datastore/ddb"
	"github.com/suparena/tablestore/manifest"
)

var (
	manifestFlag = flag.String("manifest", "", "Path to a table manifest (YAML)")
	tableFlag    = flag.String("table", "", "Name of the table to operate on")
	createFlag   = flag.Bool("create", false, "Create the table and its row-key index")
	existsFlag   = flag.Bool("exists", false, "Report whether the table exists")
	deleteFlag   = flag.Bool("delete", false, "Delete the table")
	versionFlag  = flag.Bool("version", false, "Show version information")
	vFlag        = flag.Bool("v", false, "Show version information (short)")
)

func main() {
	// Parse flags early to catch version flag
	flag.Parse()

	// Handle version flag
	if *versionFlag || *vFlag {
		info := tablestore.GetVersionInfo()
		fmt.Printf("tablestore tableadmin version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "tableadmin: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// A .env file is a local convenience; deployed environments set these
	// variables directly.
	_ = godotenv.Load()

	if *tableFlag == "" {
		return fmt.Errorf("-table is required")
	}

	schema := ddb.TableSchema{TableName: *tableFlag}
	if *manifestFlag != "" {
		m, err := manifest.Load(*manifestFlag)
		if err != nil {
			return err
		}
		t, ok := m.Table(*tableFlag)
		if !ok {
			return fmt.Errorf("table %q is not declared in %s", *tableFlag, *manifestFlag)
		}
		schema.PartitionKeyAttribute = t.PartitionKeyAttribute
		schema.RowKeyAttribute = t.RowKeyAttribute
		schema.RowKeyIndexName = t.RowKeyIndexName
	}

	client, err := ddb.NewClient(ctx, ddb.Config{
		TableName: *tableFlag,
		Region:    os.Getenv("AWS_REGION"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		Endpoint:  os.Getenv("DDB_ENDPOINT"),
	})
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	admin := ddb.NewAdmin(client, logger)

	switch {
	case *createFlag:
		return admin.CreateTable(ctx, schema)
	case *existsFlag:
		exists, err := admin.TableExists(ctx, *tableFlag)
		if err != nil {
			return err
		}
		fmt.Println(exists)
		return nil
	case *deleteFlag:
		return admin.DeleteTable(ctx, *tableFlag)
	default:
		return fmt.Errorf("one of -create, -exists, or -delete is required")
	}
}
