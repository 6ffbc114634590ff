package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/journal-engine/pkg/promptbook"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <book.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &BookValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Book file is valid!")
}

type BookValidator struct {
	errors []string
}

func (v *BookValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("book file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidBookFilename(nameWithoutExt) {
		return fmt.Errorf("book filename '%s' must be lowercase snake_case (e.g., my_book.json, not my-book.json or MyBook.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var b promptbook.Book
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&b); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	v.validateBook(&b)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *BookValidator) validateBook(b *promptbook.Book) {
	for _, err := range b.Validate() {
		v.addError(err.Error())
	}

	if b.SeedMemory != nil && strings.TrimSpace(b.SeedMemory.Text) == "" {
		v.addError("seed_memory is present but has empty text")
	}

	// Gaps in prompt coverage are allowed (the engine substitutes a
	// placeholder), but report them so authors can fill holes on purpose.
	maxNumber := b.MaxNumber()
	for n := 1; n <= maxNumber; n++ {
		missing := missingLetters(b, n)
		if len(missing) > 0 && len(missing) < 3 {
			v.addWarning(fmt.Sprintf("number %d is missing letters %s", n, strings.Join(missing, ", ")))
		}
	}
}

func missingLetters(b *promptbook.Book, number int) []string {
	var missing []string
	for _, letter := range []string{"a", "b", "c"} {
		if _, ok := b.Entries[fmt.Sprintf("%d%s", number, letter)]; !ok {
			missing = append(missing, letter)
		}
	}
	return missing
}

func (v *BookValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *BookValidator) addWarning(msg string) {
	fmt.Printf("  warning: %s\n", msg)
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidBookFilename(name string) bool {
	// Allow 'x.' prefix for experimental books
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
