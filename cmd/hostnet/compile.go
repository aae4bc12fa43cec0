package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"hostnet-agent/internal/application/usecases"
	"hostnet-agent/internal/domain/constants"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/domain/nmstate"
	"hostnet-agent/internal/infrastructure/config"
)

type requestFlags struct {
	networksFile string
	bondingsFile string
	runningFile  string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.networksFile, "networks", "n", "", "YAML or JSON file with network name to attributes mapping")
	flags.StringVarP(&f.bondingsFile, "bondings", "b", "", "YAML or JSON file with bond name to attributes mapping")
	flags.StringVarP(&f.runningFile, "running", "r", "", "running configuration file, overrides the configured source")
}

// input은 요청 파일을 읽어 유스케이스 입력을 만듭니다. 파일이 없으면 빈 매핑입니다.
func (f *requestFlags) input(fs interfaces.FileSystem) (usecases.CompileStateInput, error) {
	var input usecases.CompileStateInput
	if err := decodeFile(fs, f.networksFile, &input.Networks); err != nil {
		return input, fmt.Errorf("networks: %w", err)
	}
	if err := decodeFile(fs, f.bondingsFile, &input.Bondings); err != nil {
		return input, fmt.Errorf("bondings: %w", err)
	}
	return input, nil
}

func decodeFile(fs interfaces.FileSystem, path string, out any) error {
	if path == "" {
		return nil
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return err
	}
	// JSON은 YAML의 부분집합이므로 하나의 디코더로 처리
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// encodeState는 디스크립터를 주어진 형식으로 직렬화합니다
func encodeState(w io.Writer, state *nmstate.State, format string) error {
	switch format {
	case config.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	case config.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(state); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format: %q", format)
}

func buildCompileCmd(logger *logrus.Logger) *cobra.Command {
	var (
		request requestFlags
		format  string
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile network and bond requests into an nmstate descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appContainer, err := newContainer(cmd.Context(), logger, request.runningFile)
			if err != nil {
				return err
			}
			defer closeContainer(appContainer, logger)

			fs := appContainer.GetFileSystem()
			input, err := request.input(fs)
			if err != nil {
				return err
			}

			output, err := appContainer.GetCompileStateUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if format == "" {
				format = appContainer.GetConfig().Agent.OutputFormat
			}

			var buf bytes.Buffer
			if err := encodeState(&buf, output.State, format); err != nil {
				return err
			}

			if outFile == "" {
				_, err = os.Stdout.Write(buf.Bytes())
				return err
			}
			if err := fs.WriteFile(outFile, buf.Bytes(), constants.DescriptorFilePermission); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			logger.WithFields(logrus.Fields{
				"path":        outFile,
				"fingerprint": output.Fingerprint,
			}).Info("디스크립터 저장 완료")
			return nil
		},
	}

	request.register(cmd)
	cmd.Flags().StringVarP(&format, "output", "o", "", "output format (yaml or json), defaults to HOSTNET_AGENT_OUTPUT_FORMAT")
	cmd.Flags().StringVar(&outFile, "out-file", "", "write the descriptor to this file instead of stdout")

	return cmd
}

func buildCommitCmd(logger *logrus.Logger) *cobra.Command {
	var request requestFlags

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record successfully applied requests in the running configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appContainer, err := newContainer(cmd.Context(), logger, request.runningFile)
			if err != nil {
				return err
			}
			defer closeContainer(appContainer, logger)

			input, err := request.input(appContainer.GetFileSystem())
			if err != nil {
				return err
			}

			_, err = appContainer.GetCommitRunningConfigUseCase().Execute(cmd.Context(), input)
			return err
		},
	}

	request.register(cmd)
	return cmd
}
