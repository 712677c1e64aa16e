// Command weburl parses URLs and form-urlencoded payloads from the command
// line, mostly as a debugging aid for the library.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/weburl/weburl"
	"github.com/weburl/weburl/formenc"
)

func main() {
	cmd := &cli.Command{
		Name:  "weburl",
		Usage: "Parse URLs and form-urlencoded data",
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "Parse a URL and print its components",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "base",
						Aliases: []string{"b"},
						Usage:   "Base URL to resolve against",
					},
				},
				Action: parseAction,
			},
			{
				Name:      "file-url",
				Usage:     "Convert an absolute file path to a file: URL",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "windows",
						Aliases: []string{"w"},
						Usage:   "Treat the path as a windows path",
					},
				},
				Action: fileUrlAction,
			},
			{
				Name:  "form",
				Usage: "Encode or decode application/x-www-form-urlencoded data",
				Commands: []*cli.Command{
					{
						Name:      "decode",
						Usage:     "Decode name=value pairs from a payload",
						ArgsUsage: "<payload>",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "encoding",
								Usage: "Encoding label overriding UTF-8",
							},
							&cli.BoolFlag{
								Name:  "use-charset",
								Usage: "Honor a leading _charset_ field",
							},
						},
						Action: formDecodeAction,
					},
					{
						Name:      "encode",
						Usage:     "Encode name=value arguments into a payload",
						ArgsUsage: "<name=value>...",
						Action:    formEncodeAction,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("usage: weburl parse [--base url] <url>")
	}
	var base *weburl.Url
	if b := cmd.String("base"); b != "" {
		var err error
		if base, err = weburl.Parse(b); err != nil {
			return fmt.Errorf("parsing base: %w", err)
		}
	}
	u, err := weburl.ParseWith(cmd.Args().First(), base)
	if err != nil {
		return err
	}

	fmt.Printf("url      %s\n", u)
	fmt.Printf("scheme   %s\n", u.Scheme)
	if rel := u.Relative; rel != nil {
		if rel.Username != "" || rel.Password != nil {
			fmt.Printf("username %s\n", rel.Username)
		}
		if rel.Password != nil {
			fmt.Printf("password %s\n", *rel.Password)
		}
		if !rel.Host.IsEmpty() {
			fmt.Printf("host     %s\n", rel.Host)
		}
		if rel.Port != nil {
			fmt.Printf("port     %d\n", *rel.Port)
		}
		fmt.Printf("path     %s\n", u.SerializePath())
	} else {
		fmt.Printf("opaque   %s\n", u.Opaque)
	}
	if u.Query != nil {
		fmt.Printf("query    %s\n", *u.Query)
	}
	if u.Fragment != nil {
		fmt.Printf("fragment %s\n", *u.Fragment)
	}
	return nil
}

func fileUrlAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("usage: weburl file-url [--windows] <path>")
	}
	flavor := weburl.PathFlavorPosix
	if cmd.Bool("windows") {
		flavor = weburl.PathFlavorWindows
	}
	u, err := weburl.FromFilePathFlavor(cmd.Args().First(), flavor)
	if err != nil {
		return err
	}
	fmt.Println(u)
	return nil
}

func formDecodeAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("usage: weburl form decode [--encoding label] <payload>")
	}
	enc := formenc.UTF8
	if label := cmd.String("encoding"); label != "" {
		if enc = formenc.Lookup(label); enc == nil {
			return fmt.Errorf("unknown encoding label %q", label)
		}
	}
	pairs, ok := formenc.DecodeWithEncoding([]byte(cmd.Args().First()), enc, cmd.Bool("use-charset"))
	if !ok {
		return fmt.Errorf("payload is not decodable as %s", enc.Name())
	}
	for _, p := range pairs {
		fmt.Printf("%s = %s\n", p.Name, p.Value)
	}
	return nil
}

func formEncodeAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("usage: weburl form encode <name=value>...")
	}
	pairs := make([]formenc.Pair, 0, cmd.NArg())
	for _, arg := range cmd.Args().Slice() {
		name, value, _ := strings.Cut(arg, "=")
		pairs = append(pairs, formenc.Pair{Name: name, Value: value})
	}
	fmt.Println(formenc.Encode(pairs))
	return nil
}
