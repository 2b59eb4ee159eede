package bind_test

import (
	"errors"
	"fmt"

	"github.com/ardnew/optbind/bind"
)

func Example() {
	opts := map[string]any{"o": "STDOUT", "verbose": false}

	b, err := bind.New(opts, bind.WithProgram("meow"))
	if err != nil {
		panic(err)
	}

	b.MustOption("o -o --output=<file> Output file.").
		MustOption("verbose -v --verbose Be loud.").
		MustArgument("files [<file>...]")

	rest, err := b.Parse([]string{"-v", "a.txt", "--output=out.txt", "b.txt"})
	if err != nil {
		panic(err)
	}

	fmt.Println(rest, opts["o"], opts["verbose"], opts["files"])
	// Output: [] out.txt true [a.txt b.txt]
}

func Example_instance() {
	type config struct {
		Output  string
		Retries int
	}

	cfg := &config{Output: "STDOUT"}

	b, err := bind.New(cfg, bind.WithMode(bind.ModeInstanceScope))
	if err != nil {
		panic(err)
	}

	b.MustOption("output -o --output=<file>").
		MustOption("retries -r --retries=<n:Integer>")

	if _, err := b.Parse([]string{"-r", "3", "-o", "log.txt"}); err != nil {
		panic(err)
	}

	fmt.Printf("%+v\n", *cfg)
	// Output: {Output:log.txt Retries:3}
}

func Example_errors() {
	b, err := bind.New(map[string]any{}, bind.WithProgram("meow"))
	if err != nil {
		panic(err)
	}

	b.MustOption("-o --output=<file>").MustOption("--sort=(asc|desc)")

	_, err = b.Parse([]string{"--output"})
	fmt.Println(err, errors.Is(err, bind.ErrMissingArgument))

	_, err = b.Parse([]string{"--sort=size"})
	fmt.Println(err, errors.Is(err, bind.ErrInvalidArgument))
	// Output:
	// missing argument: --output true
	// invalid argument: size true
}

func ExampleBinder_Help() {
	b, err := bind.New(map[string]any{}, bind.WithProgram("meow"))
	if err != nil {
		panic(err)
	}

	b.MustOption("-o --output=<file> Output file.").
		MustOption("--[no-]color Use colors.").
		Usage("[<options>] <file>...")

	fmt.Print(b.Help())
	// Output:
	// usage: meow [<options>] <file>...
	//
	//     -o, --output=<file>              Output file.
	//         --[no-]color                 Use colors.
}

func ExampleScope() {
	var (
		output = "STDOUT"
		level  = 1
	)

	scope := bind.NewScope().Var("output", &output).Var("level", &level)

	b, err := bind.New(scope, bind.WithMode(bind.ModeLocalScope))
	if err != nil {
		panic(err)
	}

	b.MustOption("output -o=<file>").MustOption("level -l=<n:Integer>")

	if _, err := b.Parse([]string{"-l", "3"}); err != nil {
		panic(err)
	}

	fmt.Println(output, level, b.AssignedVariables())
	// Output: STDOUT 3 map[level:3]
}
