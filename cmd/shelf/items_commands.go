package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/listenupapp/listenup-shelf/internal/media"
	"github.com/listenupapp/listenup-shelf/internal/service"
)

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import library item documents (use - for stdin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(s *services) error {
				type imported struct {
					ID        string `json:"id"`
					MediaType string `json:"mediaType"`
					Title     string `json:"title"`
					Created   bool   `json:"created"`
				}
				results := make([]imported, 0, len(args))

				for _, path := range args {
					data, err := readInput(cmd, path)
					if err != nil {
						return err
					}
					item, created, err := s.library.ImportItem(cmd.Context(), data)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					results = append(results, imported{
						ID:        item.ID,
						MediaType: string(item.MediaType),
						Title:     item.Title(),
						Created:   created,
					})
				}

				if ctx.flags.json {
					return writeJSON(cmd, results)
				}
				for _, r := range results {
					verb := "Updated"
					if r.Created {
						verb = "Imported"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s (%s)\n", verb, r.MediaType, r.ID, r.Title)
				}
				return nil
			})
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	var allDir string

	cmd := &cobra.Command{
		Use:   "export <item-id>",
		Short: "Write a library item document",
		Args: func(cmd *cobra.Command, args []string) error {
			if allDir != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if allDir != "" {
				return exportAll(cmd, ctx, allDir)
			}
			return ctx.withServices(func(s *services) error {
				data, err := s.library.ExportItem(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if outPath != "" {
					return os.WriteFile(outPath, data, 0o644)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringVar(&allDir, "all", "", "Write every item to <dir>/<item-id>.json")
	return cmd
}

func exportAll(cmd *cobra.Command, ctx *commandContext, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return ctx.withServices(func(s *services) error {
		n, err := s.library.ExportAll(cmd.Context(), 100, func(itemID string, data []byte) error {
			return os.WriteFile(filepath.Join(dir, itemID+".json"), data, 0o644)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d items to %s\n", n, dir)
		return nil
	})
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var opts service.ListOptions
	var mediaType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library items by title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.MediaType = media.MediaKind(mediaType)
			return ctx.withServices(func(s *services) error {
				items, err := s.library.ListItems(cmd.Context(), opts)
				if err != nil {
					return err
				}

				if ctx.flags.json {
					return writeJSON(cmd, itemSummaries(items))
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No items")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					sum := summarize(item)
					rows = append(rows, []string{
						sum.ID,
						sum.MediaType,
						sum.Title,
						orDash(sum.Author),
						strconv.Itoa(sum.Tracks),
						formatSeconds(sum.Duration),
						yesNo(sum.Local),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Type", "Title", "Author", "Tracks", "Duration", "Local"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.LibraryID, "library", "", "Only items of this library id")
	cmd.Flags().StringVar(&mediaType, "type", "", "Only items of this media type (book or podcast)")
	cmd.Flags().BoolVar(&opts.LocalOnly, "local", false, "Only items with audio on this device")
	return cmd
}

type itemSummary struct {
	ID        string  `json:"id"`
	LibraryID string  `json:"libraryId"`
	MediaType string  `json:"mediaType"`
	Title     string  `json:"title"`
	Author    string  `json:"author,omitempty"`
	Tracks    int     `json:"tracks"`
	Duration  float64 `json:"duration"`
	Local     bool    `json:"local"`
}

func summarize(item *media.LibraryItem) itemSummary {
	sum := itemSummary{
		ID:        item.ID,
		LibraryID: item.LibraryID,
		MediaType: string(item.MediaType),
		Title:     item.Title(),
		Local:     item.IsLocal(),
	}
	tracks := item.Media.AudioTracks()
	sum.Tracks = len(tracks)
	switch m := item.Media.(type) {
	case *media.Book:
		sum.Author = deref(m.Metadata.AuthorName)
		if sum.Author == "" {
			sum.Author = m.Metadata.PrimaryAuthor()
		}
		sum.Duration = m.TotalDuration()
		sum.Local = sum.Local || m.HasLocalTracks()
	case *media.Podcast:
		sum.Author = deref(m.Metadata.Author)
		for _, t := range tracks {
			sum.Duration += t.Duration
		}
		sum.Local = sum.Local || len(tracks) > 0
	}
	return sum
}

func itemSummaries(items []*media.LibraryItem) []itemSummary {
	out := make([]itemSummary, 0, len(items))
	for _, item := range items {
		out = append(out, summarize(item))
	}
	return out
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show an item's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(s *services) error {
				item, err := s.library.GetItem(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if ctx.flags.json {
					return writeJSON(cmd, item)
				}

				out := cmd.OutOrStdout()
				field := func(label, value string) {
					if value != "" {
						fmt.Fprintf(out, "%-12s %s\n", label+":", value)
					}
				}

				sum := summarize(item)
				field("ID", item.ID)
				field("Type", sum.MediaType)
				field("Library", item.LibraryID)
				field("Path", item.Path)
				field("Title", sum.Title)

				switch m := item.Media.(type) {
				case *media.Book:
					md := &m.Metadata
					field("Subtitle", deref(md.Subtitle))
					field("Author", sum.Author)
					field("Narrator", deref(md.NarratorName))
					field("Series", deref(md.SeriesName))
					field("Publisher", deref(md.Publisher))
					field("Year", deref(md.PublishedYear))
					field("Genres", strings.Join(md.Genres, ", "))
					field("Tags", strings.Join(m.Tags, ", "))
					field("Tracks", strconv.Itoa(sum.Tracks))
					field("Chapters", strconv.Itoa(len(m.DerivedChapters())))
					field("Duration", formatSeconds(sum.Duration))
					field("Description", deref(md.Description))
				case *media.Podcast:
					md := &m.Metadata
					field("Author", sum.Author)
					field("Feed", deref(md.FeedURL))
					field("Genres", strings.Join(md.Genres, ", "))
					field("Tags", strings.Join(m.Tags, ", "))
					field("Episodes", strconv.Itoa(len(m.Episodes)))
					field("Local", strconv.Itoa(len(m.LocalEpisodes())))
					field("Auto DL", yesNo(m.AutoDownloadEpisodes))
				}
				return nil
			})
		},
	}
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Remove an item from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(s *services) error {
				if err := s.library.DeleteItem(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <item-id>",
		Short: "Report inconsistencies in an item's tracks or episodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(s *services) error {
				if err := s.library.CheckItem(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is consistent\n", args[0])
				return nil
			})
		},
	}
}
