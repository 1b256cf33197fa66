/*
Copyright © 2024 Brian Mulinge

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	devconfig "github.com/Brianmulinge/wanderi/dev/config"
	"github.com/Brianmulinge/wanderi/server"
	"github.com/Brianmulinge/wanderi/shared"
	"github.com/Brianmulinge/wanderi/utils"
	"github.com/go-playground/validator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the wanderi consultation server",
	Long: `The wanderi server exposes the consultation booking endpoint used by
the Wanderi Insurance website, and emails each valid request to the agency.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start(serverConfig())
	},
}

var serverConfigFile string

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "Config for server")
}

func serverConfig() shared.ServerConfig {
	config := viper.New()

	if isDevEnv || serverConfigFile == "" {
		serverConfigFile = devConfigFilePath()
	}

	config.SetConfigFile(serverConfigFile)

	// The mail credentials never live in the config file; AWS credentials
	// come from the standard SDK chain, and addressing can be overridden
	// from the environment.
	config.BindEnv("mailer.region", "AWS_REGION")
	config.BindEnv("mailer.fromEmail", "FROM_EMAIL")
	config.BindEnv("mailer.consultationEmail", "CONSULTATION_EMAIL")
	config.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		log.Panic(fmt.Sprintf("error reading server config file: %v", err))
	}

	serverConfig := shared.ServerConfig{}
	if err := config.Unmarshal(&serverConfig); err != nil {
		log.Panic(fmt.Sprintf("error parsing server config file: %v", err))
	}

	if err := validator.New().Struct(serverConfig); err != nil {
		log.Panic(fmt.Sprintf("invalid server config: %v", err))
	}

	return serverConfig
}

// devConfigFilePath returns the path to dev/config/server.yml, creating the
// file with defaults on first run.
func devConfigFilePath() string {
	workingDir, err := os.Getwd()
	if err != nil {
		log.Panic(err)
	}

	configDir := filepath.Join(workingDir, "dev", "config")
	if err := utils.CreateDirIfNotExist(configDir); err != nil {
		log.Panic(err)
	}

	configFilePath := filepath.Join(configDir, "server.yml")
	if !utils.FileExist(configFilePath) {
		if err := os.WriteFile(configFilePath, []byte(devconfig.SERVER_YML), 0600); err != nil {
			log.Panic(err)
		}
	}

	return configFilePath
}
