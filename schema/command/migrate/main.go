package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bitmark-inc/recurrence-api/schema"
)

var configFile string

func loadConfig() {
	viper.SetConfigType("yaml")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("recurrence")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the storage of the recurrence api",
	PersistentPreRun: func(*cobra.Command, []string) {
		loadConfig()
	},
}

var ormCmd = &cobra.Command{
	Use:   "orm",
	Short: "Create the threshold reset table",
	RunE: func(*cobra.Command, []string) error {
		return migrateORM()
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Create the indexes of the mongo collections",
	Run: func(*cobra.Command, []string) {
		indexer := schema.NewMongoDBIndexer(viper.GetString("mongo.conn"), viper.GetString("mongo.database"))
		defer indexer.Close()
		indexer.IndexAll()
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the symptom report and threshold alert collections",
	RunE: func(*cobra.Command, []string) error {
		indexer := schema.NewMongoDBIndexer(viper.GetString("mongo.conn"), viper.GetString("mongo.database"))
		defer indexer.Close()

		for _, c := range []string{schema.SymptomReportCollection, schema.ThresholdAlertCollection} {
			fmt.Println("drop collection", c)
			if err := indexer.Database.Collection(c).Drop(context.Background()); err != nil {
				return err
			}
		}
		return nil
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run orm and index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := migrateORM(); err != nil {
			return err
		}
		indexCmd.Run(cmd, args)
		return nil
	},
}

func migrateORM() error {
	db, err := gorm.Open("postgres", viper.GetString("orm.conn"))
	if err != nil {
		return err
	}
	defer db.Close()

	// the composite primary key is the conflict target of the watermark upsert
	return db.AutoMigrate(&schema.ResetWatermark{}).Error
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config.yaml", "[optional] path of configuration file")
	rootCmd.AddCommand(ormCmd, indexCmd, dropCmd, allCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
