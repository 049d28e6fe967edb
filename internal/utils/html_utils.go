package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnhanceHTMLContent 为用户内容中的链接加上 nofollow/ugc 标记，并去掉空段落
func EnhanceHTMLContent(htmlStr string) template.HTML {
	if strings.TrimSpace(htmlStr) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		rel := strings.Fields(s.AttrOr("rel", ""))
		for _, want := range []string{"nofollow", "ugc"} {
			if !containsString(rel, want) {
				rel = append(rel, want)
			}
		}
		s.SetAttr("rel", strings.Join(rel, " "))
	})

	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) == "" && s.Children().Length() == 0 {
			s.Remove()
		}
	})

	// goquery renders full document tags if missing, we just want the body content
	out, _ := doc.Find("body").Html()
	if out == "" {
		out, _ = doc.Html()
	}

	return template.HTML(strings.TrimSpace(out))
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
