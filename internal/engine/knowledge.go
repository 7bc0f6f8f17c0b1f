package engine

import (
	"slices"
	"sort"
)

type topicGroup struct {
	subject string
	topic   string
	records []LearningRecord
}

type subjectGroup struct {
	name   string
	topics []*topicGroup
}

// groupBySubject 按科目/知识点分组，保持首次出现的顺序
func groupBySubject(records []LearningRecord) []*subjectGroup {
	subjects := make([]*subjectGroup, 0)
	subjectIdx := make(map[string]*subjectGroup)
	topicIdx := make(map[string]map[string]*topicGroup)

	for _, r := range records {
		sg, ok := subjectIdx[r.Subject]
		if !ok {
			sg = &subjectGroup{name: r.Subject}
			subjectIdx[r.Subject] = sg
			topicIdx[r.Subject] = make(map[string]*topicGroup)
			subjects = append(subjects, sg)
		}
		tg, ok := topicIdx[r.Subject][r.Topic]
		if !ok {
			tg = &topicGroup{subject: r.Subject, topic: r.Topic}
			topicIdx[r.Subject][r.Topic] = tg
			sg.topics = append(sg.topics, tg)
		}
		tg.records = append(tg.records, r)
	}
	return subjects
}

// TopicKey 跨科目列表中的知识点标识，不同科目的同名知识点互不合并
func TopicKey(subject, topic string) string {
	return subject + "/" + topic
}

func buildSubjectMastery(sg *subjectGroup, th Thresholds) SubjectMastery {
	sm := SubjectMastery{
		Subject:          sg.name,
		TopicMastery:     make(map[string]float64, len(sg.topics)),
		CommonMistakes:   []string{},
		StrongConcepts:   []string{},
		ImprovementTrend: make(map[string]float64, len(sg.topics)),
	}

	masteries := make([]float64, 0, len(sg.topics))
	for _, tg := range sg.topics {
		scores := scoresOf(tg.records)
		mastery := clamp01(Mean(scores) / 100)
		sm.TopicMastery[tg.topic] = mastery
		masteries = append(masteries, mastery)

		low := 0
		for _, s := range scores {
			if s < th.MistakeScore {
				low++
			}
		}
		if low >= 2 {
			sm.CommonMistakes = append(sm.CommonMistakes, tg.topic)
		}
		if mastery > th.StrongConceptMastery {
			sm.StrongConcepts = append(sm.StrongConcepts, tg.topic)
		}

		trend := 0.0
		if len(scores) >= 3 {
			trend = (Mean(scores[len(scores)-3:]) - Mean(scores[:3])) / 100
		}
		sm.ImprovementTrend[tg.topic] = trend
	}
	sm.OverallMastery = clamp01(Mean(masteries))
	return sm
}

// conceptConnections 同一科目内按时间先后相邻学习的知识点建立关联
func conceptConnections(records []LearningRecord) map[string][]string {
	out := make(map[string][]string)
	lastTopic := make(map[string]string)
	for _, r := range records {
		prev, ok := lastTopic[r.Subject]
		lastTopic[r.Subject] = r.Topic
		if !ok || prev == r.Topic {
			continue
		}
		if !slices.Contains(out[prev], r.Topic) {
			out[prev] = append(out[prev], r.Topic)
		}
	}
	return out
}

func buildKnowledgeMap(records []LearningRecord, th Thresholds) KnowledgeMap {
	km := KnowledgeMap{
		SubjectMastery:     make(map[string]SubjectMastery),
		ConceptConnections: conceptConnections(records),
		LearningSequence:   []string{},
		Strengths:          []string{},
		Weaknesses:         []string{},
		NextTargets:        []string{},
	}

	subjects := groupBySubject(records)
	for _, sg := range subjects {
		sm := buildSubjectMastery(sg, th)
		km.SubjectMastery[sg.name] = sm

		switch {
		case sm.OverallMastery > th.StrengthMastery:
			km.Strengths = append(km.Strengths, sg.name)
		case sm.OverallMastery < th.WeaknessMastery:
			km.Weaknesses = append(km.Weaknesses, sg.name)
		}

		for _, tg := range sg.topics {
			if len(km.NextTargets) >= th.MaxNextTargets {
				break
			}
			m := sm.TopicMastery[tg.topic]
			key := TopicKey(sg.name, tg.topic)
			if m >= th.TargetMasteryMin && m <= th.TargetMasteryMax && !slices.Contains(km.NextTargets, key) {
				km.NextTargets = append(km.NextTargets, key)
			}
		}
	}

	ordered := append([]*subjectGroup(nil), subjects...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return km.SubjectMastery[ordered[i].name].OverallMastery > km.SubjectMastery[ordered[j].name].OverallMastery
	})
	for _, sg := range ordered {
		km.LearningSequence = append(km.LearningSequence, sg.name)
	}
	return km
}
