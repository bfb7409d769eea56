package main

import (
	"encoding/json"
	"fmt"
	"io"

	fanuc "github.com/iwtcode/focasBridge"
	"github.com/iwtcode/focasBridge/focas"

	"github.com/spf13/cobra"
)

// newRootCmd собирает дерево команд. opts передаются в fanuc.New.
func newRootCmd(opts ...fanuc.Option) *cobra.Command {
	cfg := fanuc.Load()

	root := &cobra.Command{
		Use:           "focasctl",
		Short:         "Проверка связи со станком FANUC через библиотеку FOCAS2",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.IP, "ip", cfg.IP, "IP-адрес ЧПУ")
	flags.Uint16Var(&cfg.Port, "port", cfg.Port, "TCP-порт FOCAS")
	flags.Int32Var(&cfg.TimeoutSec, "timeout", cfg.TimeoutSec, "таймаут подключения, с")
	flags.StringVar(&cfg.LogPath, "log-path", cfg.LogPath, "файл журнала FOCAS")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "уровень логирования")

	newClient := func() *fanuc.Client {
		return fanuc.New(cfg, opts...)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "available",
			Short: "Проверить, загружается ли библиотека FOCAS",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printAsJSON(cmd.OutOrStdout(), "Available", map[string]any{
					"available": newClient().IsAvailable(),
					"library":   focas.LibraryName,
				})
			},
		},
		&cobra.Command{
			Use:   "snapshot",
			Short: "Подключиться, прочитать статус, динамику и аварии, отключиться",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runSnapshot(cmd.OutOrStdout(), newClient(), cfg)
			},
		},
	)

	return root
}

// runSnapshot выполняет полный цикл опроса на одном хендле.
// Хендл освобождается, даже если чтение вернуло ошибку.
func runSnapshot(out io.Writer, client *fanuc.Client, cfg *fanuc.Config) error {
	conn, err := client.Connect(cfg.IP, int(cfg.Port))
	if err != nil {
		return err
	}
	if err := printAsJSON(out, "Connect", conn); err != nil {
		return err
	}
	if !conn.Success {
		return fmt.Errorf("подключение к %s:%d не удалось: %s", cfg.IP, cfg.Port, focas.ReturnCode(conn.Error))
	}
	handle := int(*conn.Handle)

	steps := []struct {
		name string
		fn   func(int) (any, error)
	}{
		{"ReadStatus", func(h int) (any, error) { return client.ReadStatus(h) }},
		{"ReadDynamic", func(h int) (any, error) { return client.ReadDynamic(h) }},
		{"ReadAlarms", func(h int) (any, error) { return client.ReadAlarms(h) }},
	}

	var stepErr error
	for _, step := range steps {
		res, err := step.fn(handle)
		if err != nil {
			stepErr = fmt.Errorf("шаг %s: %w", step.name, err)
			break
		}
		if err := printAsJSON(out, step.name, res); err != nil {
			stepErr = err
			break
		}
	}

	disc, err := client.Disconnect(handle)
	if err != nil {
		return err
	}
	if err := printAsJSON(out, "Disconnect", disc); err != nil {
		return err
	}
	return stepErr
}

// printAsJSON форматирует данные в JSON и выводит их
func printAsJSON(out io.Writer, name string, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка маршалинга JSON для %s: %w", name, err)
	}
	_, err = fmt.Fprintf(out, "--- %s ---\n%s\n", name, jsonData)
	return err
}
