package chatclient

import "time"

// DayGroup 是按自然日分组后的一段消息。
type DayGroup struct {
	Label    string
	Messages []Message
}

// GroupByDay 把消息日志按自然日分组用于展示：今天、昨天或具体日期。
// 纯投影：不修改输入，组内与组间顺序都沿用日志顺序，可随时重算。
func GroupByDay(messages []Message, now time.Time) []DayGroup {
	var groups []DayGroup
	index := make(map[string]int)

	for _, message := range messages {
		label := dayLabel(message.CreatedAt, now)
		if i, ok := index[label]; ok {
			groups[i].Messages = append(groups[i].Messages, message)
			continue
		}
		index[label] = len(groups)
		groups = append(groups, DayGroup{Label: label, Messages: []Message{message}})
	}
	return groups
}

func dayLabel(t, now time.Time) string {
	t = t.In(now.Location())
	yt, mt, dt := t.Date()
	yn, mn, dn := now.Date()
	if yt == yn && mt == mn && dt == dn {
		return "Today"
	}
	yy, my, dy := now.AddDate(0, 0, -1).Date()
	if yt == yy && mt == my && dt == dy {
		return "Yesterday"
	}
	return t.Format("2 January 2006")
}
