package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/listenupapp/listenup-shelf/internal/media"
	"github.com/listenupapp/listenup-shelf/internal/service"
)

func newLibrariesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libraries",
		Short: "List libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(s *services) error {
				libs, err := s.library.ListLibraries(cmd.Context())
				if err != nil {
					return err
				}
				return printLibraries(cmd, ctx, s.library, libs)
			})
		},
	}

	cmd.AddCommand(newLibraryCreateCommand(ctx))
	cmd.AddCommand(newLibraryImportCommand(ctx))
	return cmd
}

func printLibraries(cmd *cobra.Command, ctx *commandContext, svc *service.LibraryService, libs []*media.Library) error {
	if ctx.flags.json {
		return writeJSON(cmd, libs)
	}
	if len(libs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No libraries")
		return nil
	}

	rows := make([][]string, 0, len(libs))
	for _, lib := range libs {
		items, err := svc.ListItems(cmd.Context(), service.ListOptions{LibraryID: lib.ID})
		if err != nil {
			return err
		}
		folders := make([]string, 0, len(lib.Folders))
		for _, f := range lib.Folders {
			folders = append(folders, f.FullPath)
		}
		rows = append(rows, []string{
			lib.ID,
			lib.Name,
			string(lib.MediaType),
			orDash(strings.Join(folders, ", ")),
			strconv.Itoa(len(items)),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"ID", "Name", "Type", "Folders", "Items"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}

func newLibraryCreateCommand(ctx *commandContext) *cobra.Command {
	var mediaType string
	var folders []string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(s *services) error {
				lib, err := s.library.CreateLibrary(cmd.Context(), args[0], media.MediaKind(mediaType), folders...)
				if err != nil {
					return err
				}
				return printLibraries(cmd, ctx, s.library, []*media.Library{lib})
			})
		},
	}

	cmd.Flags().StringVar(&mediaType, "type", string(media.KindBook), "Media type: book or podcast")
	cmd.Flags().StringSliceVar(&folders, "folder", nil, "Folder path (repeatable)")
	return cmd
}

func newLibraryImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a library document (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return ctx.withServices(func(s *services) error {
				lib, _, err := s.library.ImportLibrary(cmd.Context(), data)
				if err != nil {
					return err
				}
				return printLibraries(cmd, ctx, s.library, []*media.Library{lib})
			})
		},
	}
}
