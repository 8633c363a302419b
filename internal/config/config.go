package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robmartinson/pg2bq/internal/database"
	"github.com/robmartinson/pg2bq/internal/ddl"
)

const version = "pg2bq v1.0"

var (
	cfgFile   string
	configErr error
	v         = viper.New()

	rootCmd = &cobra.Command{
		Use:   "pg2bq",
		Short: "PostgreSQL to BigQuery DDL generator",
		Long: `Reads column metadata for a list of PostgreSQL tables from
information_schema and prints matching BigQuery CREATE TABLE statements.
Nothing is executed against BigQuery.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configErr
		},
		RunE: runGenerate,
	}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Print BigQuery DDL for the configured tables",
		RunE:  runGenerate,
	}

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate database connection and configuration",
		Long: `Test the database connection and configuration settings
without generating any DDL.`,
		RunE: runValidate,
	}

	typesCmd = &cobra.Command{
		Use:   "types",
		Short: "Print the effective PostgreSQL to BigQuery type mapping",
		RunE:  runTypes,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
)

// Execute runs the root command; an interrupt cancels in-flight queries.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pg2bq.yaml)")

	// Database connection flags
	flags.String("driver", "postgres", "database/sql driver: postgres or pgx")
	flags.String("pg", "", "PostgreSQL connection string (optional)")
	flags.String("host", "localhost", "PostgreSQL host")
	flags.Int("port", 5432, "PostgreSQL port")
	flags.String("db", "postgres", "PostgreSQL database name")
	flags.String("user", "postgres", "PostgreSQL user")
	flags.String("password", "postgres", "PostgreSQL password")

	// SSH tunnel flags
	flags.String("sshkey", "", "Path to SSH private key file")
	flags.String("sshuser", "", "SSH user")
	flags.String("sshhost", "", "SSH host")
	flags.Int("sshport", 22, "SSH port")

	// Generation flags
	flags.String("schema", "public", "PostgreSQL schema name")
	flags.StringSlice("tables", []string{"test", "hello"}, "tables to process, in output order (comma separated)")
	flags.String("dataset", "tables_ods", "target BigQuery dataset")
	flags.String("table-case", string(ddl.CaseUpper), "table name case: camel, upper, lower or as_is")
	flags.String("column-case", string(ddl.CaseCamel), "column name case: camel, upper, lower or as_is")
	flags.String("format", database.FormatDDL, "output format: ddl or schema-json")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(versionCmd)

	v.BindPFlags(flags)
}

func initConfig() {
	configErr = nil
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".pg2bq")
	}

	v.SetEnvPrefix("PG2BQ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	switch {
	case err == nil:
		log.Println("Using config file:", v.ConfigFileUsed())
	case cfgFile != "":
		// An explicit --config must exist and parse.
		configErr = fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
	}
}

func connectionConfig(v *viper.Viper) database.Config {
	return database.Config{
		Driver:           v.GetString("driver"),
		ConnectionString: v.GetString("pg"),
		Host:             v.GetString("host"),
		Port:             v.GetInt("port"),
		Database:         v.GetString("db"),
		User:             v.GetString("user"),
		Password:         v.GetString("password"),
		SSHKey:           v.GetString("sshkey"),
		SSHUser:          v.GetString("sshuser"),
		SSHHost:          v.GetString("sshhost"),
		SSHPort:          v.GetInt("sshport"),
	}
}

func generateConfig(v *viper.Viper) database.GenerateConfig {
	return database.GenerateConfig{
		Schema: v.GetString("schema"),
		Tables: splitTables(v.GetStringSlice("tables")),
		Format: v.GetString("format"),
		Options: ddl.Options{
			Dataset:     v.GetString("dataset"),
			TableCase:   ddl.CaseStyle(v.GetString("table-case")),
			ColumnCase:  ddl.CaseStyle(v.GetString("column-case")),
			TypeMapping: typeMapping(v),
		},
	}
}

// splitTables accepts both list entries and comma separated values, so
// PG2BQ_TABLES=a,b names two tables.
func splitTables(entries []string) []string {
	var tables []string
	for _, entry := range entries {
		for _, t := range strings.Split(entry, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tables = append(tables, t)
			}
		}
	}
	return tables
}

// typeMapping merges the config file's type_mapping section over the
// built-in mapping.
func typeMapping(v *viper.Viper) ddl.TypeMapping {
	return ddl.DefaultTypeMapping().Merge(v.GetStringMapString("type_mapping"))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	genConfig := generateConfig(v)
	switch genConfig.Format {
	case database.FormatDDL, database.FormatSchemaJSON:
	default:
		return fmt.Errorf("unsupported format %q", genConfig.Format)
	}

	generator, err := database.NewGenerator(cmd.Context(), connectionConfig(v))
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	defer generator.Close()

	return generator.Generate(cmd.Context(), cmd.OutOrStdout(), genConfig)
}

func runValidate(cmd *cobra.Command, args []string) error {
	generator, err := database.NewGenerator(cmd.Context(), connectionConfig(v))
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	defer generator.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid and database is accessible")
	return nil
}

func runTypes(cmd *cobra.Command, args []string) error {
	mapping := typeMapping(v)
	for _, k := range mapping.Keys() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", k, mapping[k])
	}
	return nil
}
