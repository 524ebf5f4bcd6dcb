package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bodgit/furcmap"
	"github.com/bodgit/furcmap/layer"
	"github.com/bodgit/furcmap/tile"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

const defaultDB = "furcmap.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func intArgs(c *cli.Context, from, n int) ([]int, error) {
	ints := make([]int, n)
	for i := range ints {
		v, err := strconv.Atoi(c.Args().Get(from + i))
		if err != nil {
			return nil, err
		}
		ints[i] = v
	}
	return ints, nil
}

func openDB(c *cli.Context) (*furcmap.MapDB, error) {
	file := c.String("db")
	if !c.IsSet("db") {
		cfg, err := loadConfig(c.String("config"))
		if err != nil {
			return nil, err
		}
		if cfg.Database != "" {
			file = cfg.Database
		}
	}
	return furcmap.NewMapDB(file)
}

func printTile(w io.Writer, v *tile.View) {
	fmt.Fprintf(w, "x: %d\ny: %d\nfloor: %d\nobject: %d\nwall ne: %d\nwall nw: %d\nreal wall: %d\nregion: %d\neffect: %d\n",
		v.X(), v.Y(), v.Floor(), v.Object(), v.WallNE(), v.WallNW(), v.RealWall(), v.Region(), v.Effect())
}

func newMap(c *cli.Context) error {
	if c.NArg() < 3 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	dims, err := intArgs(c, 0, 2)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	m, err := furcmap.New(dims[0], dims[1])
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	h := m.Header()
	if err := cfg.Defaults.apply(&h); err != nil {
		return cli.NewExitError(err, 1)
	}
	m.SetHeader(h)

	file := c.Args().Get(2)
	if err := m.Save(file, c.Bool("force")); err != nil {
		return cli.NewExitError(err, 1)
	}
	newLogger(c).Printf("Created \"%s\" (%dx%d)\n", file, m.Width(), m.Height())

	return nil
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	file := c.Args().First()
	fi, err := os.Stat(file)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	m, err := furcmap.Open(file)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	h := m.Header()
	w := c.App.Writer
	fmt.Fprintf(w, "name: %s\nrating: %s\nrevision: %d\n", h.Name, h.Rating, h.Revision)
	fmt.Fprintf(w, "patch: %s %s\n", h.Patch, h.PatchArchive)
	fmt.Fprintf(w, "size: %dx%d (stored width %d)\n", m.Width(), m.Height(), m.StoredWidth())
	fmt.Fprintf(w, "layer: %s\nfile: %s\n", humanize.Bytes(uint64(m.LayerByteCount())), humanize.Bytes(uint64(fi.Size())))
	for _, line := range h.Lines()[7:] {
		if line != "BODY" && line != "rating="+h.Rating {
			fmt.Fprintln(w, line)
		}
	}

	return nil
}

func showTile(c *cli.Context) error {
	if c.NArg() < 3 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	xy, err := intArgs(c, 1, 2)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	m, err := furcmap.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	v, err := m.Tile(xy[0], xy[1])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	printTile(c.App.Writer, v)

	return nil
}

func setTile(c *cli.Context) error {
	if c.NArg() < 3 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	xy, err := intArgs(c, 1, 2)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	x, y := xy[0], xy[1]

	file := c.Args().First()
	m, err := furcmap.Open(file)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	cur, err := m.Tile(x, y)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	pick := func(name string, v uint16) (uint16, error) {
		if !c.IsSet(name) {
			return v, nil
		}
		if n := c.Uint(name); n <= layer.MaxID {
			return uint16(n), nil
		}
		return 0, fmt.Errorf("%w: %s must be between 0 and %d", furcmap.ErrOutOfRange, name, layer.MaxID)
	}

	v := tile.New(x, y)
	for _, f := range []struct {
		name string
		set  func(uint16) error
		cur  uint16
	}{
		{"floor", v.SetFloor, cur.Floor()},
		{"object", v.SetObject, cur.Object()},
		{"wall", v.SetRealWall, cur.RealWall()},
		{"region", v.SetRegion, cur.Region()},
		{"effect", v.SetEffect, cur.Effect()},
	} {
		id, err := pick(f.name, f.cur)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if err := f.set(id); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	if err := m.SetTile(x, y, v); err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := m.Save(file, true); err != nil {
		return cli.NewExitError(err, 1)
	}

	v, err = m.Tile(x, y)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	printTile(c.App.Writer, v)

	return nil
}

func scan(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	db, err := openDB(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	if err := furcmap.NewIndexer(db, newLogger(c)).Scan(c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func find(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	db, err := openDB(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	summaries, err := db.FindByName(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, s := range summaries {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\t%dx%d\n", s.CRC, s.Name, s.Rating, s.Width, s.Height)
		for _, p := range s.Paths {
			fmt.Fprintf(c.App.Writer, "\t%s\n", p)
		}
	}

	return nil
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "furcmap"
	app.Usage = "Dream map file utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"FURCMAP_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to catalogue database",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"FURCMAP_CONFIG"},
			Usage:   "path to YAML configuration",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	idFlags := []cli.Flag{}
	for _, name := range []string{"floor", "object", "wall", "region", "effect"} {
		idFlags = append(idFlags, &cli.UintFlag{
			Name:  name,
			Usage: "set the " + name + " identifier (0-255)",
		})
	}

	app.Commands = []*cli.Command{
		{
			Name:      "new",
			Usage:     "Create an empty map",
			ArgsUsage: "WIDTH HEIGHT FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "force",
					Usage: "overwrite an existing file",
				},
			},
			Action: newMap,
		},
		{
			Name:      "info",
			Usage:     "Show map settings",
			ArgsUsage: "FILE",
			Action:    info,
		},
		{
			Name:      "tile",
			Usage:     "Show the tile at a display coordinate",
			ArgsUsage: "FILE X Y",
			Action:    showTile,
		},
		{
			Name:      "set",
			Usage:     "Change the tile at a display coordinate",
			ArgsUsage: "FILE X Y",
			Flags:     idFlags,
			Action:    setTile,
		},
		{
			Name:      "scan",
			Usage:     "Scan filesystem and catalogue map files",
			ArgsUsage: "DIRECTORY",
			Action:    scan,
		},
		{
			Name:      "find",
			Usage:     "Find catalogued maps by name",
			ArgsUsage: "PATTERN",
			Action:    find,
		},
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
