// Command fetch-hn downloads Hacker News story titles into a JSONL corpus
// suitable for salient-run. Each story becomes one document whose text is
// the title plus any self-post body.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	apiBase       = "https://hacker-news.firebaseio.com/v0"
	topStoriesURL = apiBase + "/topstories.json"
	itemURL       = apiBase + "/item/%d.json"
)

// hnItem is the Hacker News API item shape.
type hnItem struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Time  int64  `json:"time"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// corpusDoc matches the input format of corpus.LoadFromJSONL.
type corpusDoc struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func main() {
	count := flag.Int("count", 100, "number of top stories to fetch")
	output := flag.String("output", "testdata/hn/docs.jsonl", "output JSONL path")
	flag.Parse()

	log.Printf("fetching top %d Hacker News stories", *count)

	storyIDs, err := getTopStories()
	if err != nil {
		log.Fatal("get top stories: ", err)
	}
	if *count < len(storyIDs) {
		storyIDs = storyIDs[:*count]
	}

	if err := os.MkdirAll(filepath.Dir(*output), 0755); err != nil {
		log.Fatal("create output directory: ", err)
	}
	outFile, err := os.Create(*output)
	if err != nil {
		log.Fatal("create output file: ", err)
	}
	defer outFile.Close()

	encoder := json.NewEncoder(outFile)
	written := 0

	for _, id := range storyIDs {
		item, err := getItem(id)
		if err != nil {
			log.Printf("get item %d: %v", id, err)
			continue
		}
		if item.Type != "story" || item.Title == "" {
			continue
		}

		text := item.Title
		if item.Text != "" {
			text += ". " + stripHTML(item.Text)
		}

		doc := corpusDoc{ID: fmt.Sprintf("hn-%d", item.ID), Text: text}
		if err := encoder.Encode(doc); err != nil {
			log.Printf("encode doc %d: %v", item.ID, err)
			continue
		}

		written++
		if written%25 == 0 {
			log.Printf("fetched %d/%d stories", written, len(storyIDs))
		}

		// Be nice to the API
		time.Sleep(50 * time.Millisecond)
	}

	log.Printf("wrote %d documents to %s", written, *output)
}

func getTopStories() ([]int64, error) {
	resp, err := http.Get(topStoriesURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var ids []int64
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func getItem(id int64) (*hnItem, error) {
	resp, err := http.Get(fmt.Sprintf(itemURL, id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var item hnItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)

	return strings.TrimSpace(buf.String())
}
