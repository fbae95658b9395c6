package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bibdb/internal/conflict"
	"bibdb/internal/entry"
	"bibdb/internal/format"
	"bibdb/internal/importer"
)

var stdin = bufio.NewReader(os.Stdin)

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// consoleDecisions wires every pipeline decision point to a stdin prompt.
func consoleDecisions() importer.Decisions {
	return importer.Decisions{
		Proceed: promptProceed,
		Key:     promptKey,
		Person:  promptPerson,
		Journal: promptJournal,
		Pdf:     promptPdf,
	}
}

func promptProceed(title, pdfName string) (bool, error) {
	fmt.Println(title)
	if pdfName == "" {
		fmt.Println("\tFile: None")
	} else {
		fmt.Printf("\tFile: %s\n", pdfName)
	}
	choice, err := readLine("(a)abort, (c)continue? ")
	if err != nil {
		return false, err
	}
	return choice == "c", nil
}

func promptKey(conflicting *entry.Item) (conflict.KeyDecision, error) {
	fmt.Println("citation conflict!")
	fmt.Println(format.Simple(conflicting))
	choice, err := readLine("(a)abort, (u)update entry, or input a new citation key: ")
	if err != nil {
		return conflict.KeyDecision{}, err
	}
	switch choice {
	case "a", "":
		return conflict.KeyDecision{Action: conflict.KeyAbort}, nil
	case "u":
		return conflict.KeyDecision{Action: conflict.KeyMerge}, nil
	}
	return conflict.KeyDecision{Action: conflict.KeyUse, ID: choice}, nil
}

func promptPerson(lastName, firstName string, candidates []entry.Person) (conflict.PersonDecision, error) {
	fmt.Printf("Who's this author? (%s, %s)\n", lastName, firstName)
	for i, p := range candidates {
		fmt.Printf("%d. %s, %s\n", i, p.LastName, p.FirstName)
	}
	choice, err := readLine("(a)abort, (n[,first_name]) new person, or number[,corrected_first_name]: ")
	if err != nil {
		return conflict.PersonDecision{}, err
	}
	var override string
	if idx := strings.Index(choice, ","); idx >= 0 {
		override = strings.TrimSpace(choice[idx+1:])
		choice = strings.TrimSpace(choice[:idx])
	}
	switch choice {
	case "a", "":
		return conflict.PersonDecision{Action: conflict.PersonAbort}, nil
	case "n":
		return conflict.PersonDecision{Action: conflict.PersonCreate, FirstName: override}, nil
	}
	index, err := strconv.Atoi(choice)
	if err != nil {
		return conflict.PersonDecision{}, fmt.Errorf("invalid choice %q", choice)
	}
	return conflict.PersonDecision{Action: conflict.PersonUse, Index: index, FirstName: override}, nil
}

func promptJournal(name string) (conflict.JournalDecision, error) {
	fmt.Printf("journal name not found: %s\n", name)
	choice, err := readLine("input journal name[, abbreviation, abbreviation without dots], or (a)bort: ")
	if err != nil {
		return conflict.JournalDecision{}, err
	}
	if choice == "a" || choice == "" {
		return conflict.JournalDecision{Action: conflict.JournalAbort}, nil
	}
	parts := strings.Split(choice, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 1:
		return conflict.JournalDecision{Action: conflict.JournalRetry, Name: parts[0]}, nil
	case 3:
		return conflict.JournalDecision{
			Action:    conflict.JournalCreate,
			Name:      parts[0],
			Abbr:      parts[1],
			AbbrNoDot: parts[2],
		}, nil
	}
	return conflict.JournalDecision{}, fmt.Errorf("expected one name or a full triple, got %d parts", len(parts))
}

func promptPdf(existing []entry.File) (importer.PdfDecision, error) {
	fmt.Println("pdf file exists!")
	for i, f := range existing {
		fmt.Printf("%d: %s\n", i, f.Name)
	}
	choice, err := readLine("(c) do nothing, (N) replace the Nth file, or a short word as the new file's suffix: ")
	if err != nil {
		return importer.PdfDecision{}, err
	}
	if choice == "c" || choice == "" {
		return importer.PdfDecision{Action: importer.PdfSkip}, nil
	}
	if index, err := strconv.Atoi(choice); err == nil {
		return importer.PdfDecision{Action: importer.PdfReplace, Index: index}, nil
	}
	return importer.PdfDecision{Action: importer.PdfSuffix, Suffix: choice}, nil
}
