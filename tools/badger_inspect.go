package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"

	"messaging-kit/repositories"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	// idx: keys only point at primary keys, so they are skipped unless asked for
	prefix := flag.String("prefix", "msg:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Sender", "MIME", "Size"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				if strings.HasPrefix(rawKey, "idx:") {
					table.Append([]string{rawKey, "INDEX", "", "", string(v), ""})
					return nil
				}
				message, err := repositories.DecodeMessage(v)
				if err != nil {
					// keep scanning past bad records
					fmt.Printf("Error decoding key %s: %v\n", rawKey, err)
					return nil
				}
				table.Append([]string{
					rawKey,
					strings.ToUpper(message.MIMEType().Kind().String()),
					message.SentAt().Format(time.RFC3339),
					message.SentByUserID(),
					message.MIMEType().String(),
					strconv.Itoa(message.Size()),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
