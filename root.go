package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tosho/config"
	"tosho/downloader"
)

var (
	pageStart    int
	pageEnd      int
	noRedownload bool
	quiet        bool
	outputDir    string
)

var rootCmd = &cobra.Command{
	Use:   "tosho [flags] BOOK_URL_OR_ID",
	Short: "Download a Google Book as a directory of PNG page images",
	Long: `Tosho downloads a book from the Google Books web viewer and writes
each available page as a PNG image, named 001.png, 002.png, ... inside a
directory built from the book's attribution and title.

Pages the service withholds (restricted pages) are skipped.`,
	Version:      config.Version,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runDownload,
}

func init() {
	rootCmd.Flags().IntVarP(&pageStart, "page-start", "s", 1, "first page to download (1-based)")
	rootCmd.Flags().IntVarP(&pageEnd, "page-end", "e", 0, "last page to download (0 = last page of the book)")
	rootCmd.Flags().BoolVarP(&noRedownload, "no-redownload", "n", false, "do not download pages whose output file exists")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print progress messages to the terminal")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "base output directory (default: settings, then current directory)")

	rootCmd.AddCommand(versionCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	settings := config.LoadSettings()

	baseDir := settings.OutputDir
	if outputDir != "" {
		baseDir = outputDir
	}

	var callback downloader.ProgressCallback
	if !quiet {
		callback = func(status string, progress float64, page, current, total int) {
			fmt.Println(status)
		}
	}

	cfg := &downloader.DownloadConfig{
		Book:             args[0],
		PageStart:        pageStart - 1,
		PageEnd:          pageEndIndex(pageEnd),
		OutputDir:        baseDir,
		NoRedownload:     noRedownload,
		ProgressCallback: callback,
	}

	manager := downloader.NewManager(cfg, settings)
	return manager.Download(cmd.Context())
}

// pageEndIndex maps the 1-based inclusive --page-end flag to the iterator's
// 0-based exclusive bound, where a negative bound means "to the end".
func pageEndIndex(flag int) int {
	if flag <= 0 {
		return -1
	}
	return flag
}
