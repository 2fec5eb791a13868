package exam

import "github.com/hskaicoach/backend/internal/models"

func mc(id, correct int, options ...string) models.ExamQuestion {
	idx := correct
	return models.ExamQuestion{
		ID:           id,
		Type:         models.ExamMultipleChoice,
		Options:      options,
		CorrectIndex: &idx,
	}
}

func ordering(id int, answer string, options ...string) models.ExamQuestion {
	return models.ExamQuestion{
		ID:            id,
		Type:          models.ExamOrdering,
		Options:       options,
		CorrectAnswer: answer,
	}
}

func writing(id int, instructions string) models.ExamQuestion {
	return models.ExamQuestion{
		ID:           id,
		Type:         models.ExamWriting,
		Instructions: instructions,
	}
}

// examH51327 is the digitized official HSK 5 mock paper H51327.
func examH51327() *models.Exam {
	return &models.Exam{
		ID:        "H51327",
		Level:     5,
		TotalTime: 125,
		AudioURL:  "/audio/hsk5/H51327.mp3",
		Sections: []models.ExamSection{
			{
				ID:           "listening",
				Title:        "听力 (Listening)",
				Instructions: "第一部分: 第 1-20 题: 请选出正确答案。\n第二部分: 第 21-45 题: 请选出正确答案。",
				Questions: []models.ExamQuestion{
					mc(1, 0, "太忙", "要出差", "不感兴趣", "准备不充分"),
					mc(2, 1, "周末加班", "同意去钓鱼", "对海鲜过敏", "不想去郊外"),
					mc(3, 2, "字数多", "结构太乱", "再检查一下", "有语法问题"),
					mc(4, 1, "是演员", "学过跳舞", "第一次表演", "要教男的跳舞"),
					mc(5, 0, "受伤了", "晕倒了", "腿流血了", "刚做完手术"),
					mc(6, 1, "联系同学", "做通讯录", "换手机号", "改聚会地点"),
					mc(7, 1, "简单易行", "帮助不大", "很有价值", "理论性太强"),
					mc(8, 2, "角度偏", "缺乏新意", "研究范围大", "没有研究意义"),
					mc(9, 1, "太薄了", "颜色艳", "质量差", "样子一般"),
					mc(10, 2, "迷路了", "认错人了", "碰到了邻居", "没见过那个女孩儿"),
					mc(11, 0, "卧室", "客厅", "阳台", "书房"),
					mc(12, 2, "刚吃过", "餐厅太远", "胃不舒服", "不爱吃辣椒"),
					mc(13, 1, "表示歉意", "通知她去上班", "让她来取简历", "告诉她考试成绩"),
					mc(14, 0, "想考研", "想买书", "复习完了", "做事没目标"),
					mc(15, 3, "没字幕", "没中文配音", "画面不清楚", "字幕和声音不一致"),
					mc(16, 2, "收费不合理", "不打算安装了", "男的弄错时间了", "男的服务态度不好"),
					mc(17, 3, "朋友推荐的", "报社要求的", "书的销量好", "为采访做准备"),
					mc(18, 1, "广告宣传", "注册手续", "营业执照", "招聘方案"),
					mc(19, 0, "要下雪", "资金不够", "路面结冰了", "参与的人少"),
					mc(20, 3, "别灰心", "要加强锻炼", "女的进决赛了", "女的状态很好"),
					mc(21, 2, "减肥", "退课", "学网球", "换教练"),
					mc(22, 0, "钟歪了", "表停了", "椅子脏了", "柜子坏了"),
					mc(23, 0, "订机票", "翻译资料", "做会议记录", "去机场接人"),
					mc(24, 3, "没年假", "没去过云南", "没朋友做伴", "不能一起去"),
					mc(25, 0, "还没批", "利润很高", "需要贷款", "被否定了"),
					mc(26, 1, "皮鞋小了", "裤子太大", "裤子太短", "裙子太肥"),
					mc(27, 3, "降雨量", "电视节目", "彩虹形状", "彩虹颜色"),
					mc(28, 0, "找人代收", "来前台取", "现在来取", "取消订单"),
					mc(29, 1, "房子面积小", "他们想租房", "他们签合同了", "那儿购物方便"),
					mc(30, 0, "照片", "杂志", "日记", "明信片"),
					mc(31, 3, "有亲戚来", "财主过生日", "财主请人吃饭", "邻居租他家房子请客"),
					mc(32, 0, "小气", "大方", "狡猾", "热心"),
					mc(33, 0, "针", "刀", "筷子", "玩具"),
					mc(34, 3, "乐于助人", "懂得照顾人", "从小勤奋好学", "刚开始读书没耐心"),
					mc(35, 3, "要尊敬老人", "实践出真知", "要有怀疑精神", "坚持不懈才能成功"),
					mc(36, 1, "画儿不见了", "画家要价高", "画家说谎了", "画家画得很快"),
					mc(37, 3, "很多动物", "一只孔雀", "别人订的画儿", "一堆画着孔雀的废纸"),
					mc(38, 1, "把画儿撕了", "准备了一年", "没卖那幅画儿", "不想跟富翁做生意"),
					mc(39, 3, "爱吃鱼", "不见客", "不想做官", "不收别人送的鱼"),
					mc(40, 1, "答谢他", "求他办事", "知道他养鱼", "他做的鱼味道好"),
					mc(41, 3, "眼见为实", "做人要谦虚", "要相信别人", "不要占小便宜"),
					mc(42, 1, "制定计划", "特意提醒自己", "找人一起运动", "加大锻炼强度"),
					mc(43, 3, "第 21 天最关键", "坏习惯很难改掉", "越熟悉的越容易忘记", "养成新习惯至少要 21 天"),
					mc(44, 0, "把鞋扔进果园", "脱了衣服爬进去", "找到最矮的围墙", "借助旁边的大树"),
					mc(45, 2, "要独立", "要客观评价自己", "切断后路才能激发潜力", "成长过程中免不了做错事"),
				},
			},
			{
				ID:           "reading",
				Title:        "阅读 (Reading)",
				Instructions: "第一部分: 第 46-60 题: 请选出正确答案。\n第二部分: 第 61-70 题: 请选出与试题内容一致的一项。\n第三部分: 第 71-90 题: 请选出正确答案。",
				Questions: []models.ExamQuestion{
					mc(46, 0, "缓解", "消失", "消灭", "降低"),
					mc(47, 2, "真实", "原来", "正确", "合法"),
					mc(48, 0, "情绪", "语气", "观点", "表情"),
					mc(49, 2, "例如", "不如", "好像", "据说"),
					mc(50, 0, "彻底", "反复", "陆续", "绝对"),
					mc(51, 3, "明天也许会更好", "过去的就让它过去吧", "失败未必是成功之母", "失败并不是最终的定论"),
					mc(52, 1, "感想", "勇气", "风格", "行为"),
					mc(53, 1, "凡是", "根本", "格外", "总算"),
					mc(54, 3, "对于", "通过", "自从", "按照"),
					mc(55, 2, "形象", "位置", "号码", "形势"),
					mc(56, 2, "会使比赛更精彩", "比赛规则不能改变", "就很容易引起误会", "就会打扰观众看比赛"),
					mc(57, 0, "陪伴", "协调", "组织", "执行"),
					mc(58, 1, "贵族很得意", "国王没有表态", "国王连连点头", "大家哈哈大笑"),
					mc(59, 0, "直接", "正式", "紧急", "明显"),
					mc(60, 3, "命令", "答应", "欣赏", "称赞"),
					mc(61, 3, "围棋规则复杂", "围棋适合 4 人玩儿", "围棋有 1000 多年的历史", "围棋的影响范围正逐步扩大"),
					mc(62, 2, "有氧运动强度大", "有氧运动效果不佳", "有氧运动有益身心健康", "有氧运动宜在傍晚进行"),
					mc(63, 2, "开玩笑要注意场合", "幽默感可以慢慢培养", "幽默的人懂得活跃气氛", "不要随便打断别人的谈话"),
					mc(64, 3, "选择性失忆是常见病", "选择性失忆对大脑伤害极大", "选择性失忆目前还无法治疗", "选择性失忆病人会忘记不想记住的事"),
					mc(65, 1, "错误是可以避免的", "成功离不开错误的经验", "年轻人普遍缺乏判断力", "智慧可以通过学习来获得"),
					mc(66, 0, "山东的代称来自于古代国名", "文化同化是民族融合的基础", "齐鲁民族融合始于战国初年", "地域概念的形成促进了经济的发展"),
					mc(67, 2, "海参比较怕冷", "海洋动物大多会夏眠", "夏眠是动物对环境的适应", "夏眠有利于动物保持体温恒定"),
					mc(68, 0, "李煜后期的创作成就更大", "政治失败的皇帝更擅长作诗", "李煜前期的词充满了悲痛之情", "描写宫廷生活的词更受人们喜爱"),
					mc(69, 1, "智商低的人容易发脾气", "愤怒时不要轻易做决定", "人在不生气时都很理智", "做决定前应多和别人商量"),
					mc(70, 2, "企业应加强对员工的培训", "管理者应重视员工的意见", "团队建设对企业管理很重要", "企业发展需要良好的文化氛围"),
					mc(71, 3, "生病了", "觉得疲劳", "非常严肃", "情绪低落"),
					mc(72, 1, "换条船", "织一张大网", "早点儿出海", "把网织得结实点儿"),
					mc(73, 2, "船漏水了", "渔网破了", "渔夫没捕到鱼", "渔夫遇到了风暴"),
					mc(74, 1, "要敢于尝试", "人要懂得满足", "细节决定成败", "不要过于追求完美"),
					mc(75, 3, "没有奖品", "讨厌打架", "担心被老鼠打败", "不屑与老鼠比武"),
					mc(76, 0, "浪费时间", "丢掉权力", "使自己变笨", "提高对方的能力"),
					mc(77, 0, "最聪明的人", "遇事冷静的人", "勇于挑战强者的人", "善于抓住机会的人"),
					mc(78, 2, "老鼠很胆小", "狮子更愿意和猫比赛", "要集中精力做重要的事", "同一层次的人交流更顺畅"),
					mc(79, 2, "看到河水干了", "发现行李不见了", "被打的人掉进了河里", "有一个人找到了食物"),
					mc(80, 2, "附近没有沙子", "希望同伴原谅他", "要记住朋友的帮助", "作为寻找方向的记号"),
					mc(81, 0, "对朋友要求过高", "对朋友关心太少", "很少和家人沟通", "把爱情看得比友情更重"),
					mc(82, 1, "付出与回报", "朋友的相处之道", "怎样表达感激之情", "如何让你的旅行更安全"),
					mc(83, 3, "再买一瓶", "把空瓶卖掉", "把瓶子借给别人", "向别人借一个空瓶"),
					mc(84, 2, "可以扔掉", "污染环境", "往往被忽视", "会占用空间"),
					mc(85, 3, "能力不足", "不愿意交换", "汽水卖光了", "没有合理利用资源"),
					mc(86, 3, "6 块钱的用处", "被遗忘的汽水", "你喝过那瓶汽水吗", "别浪费你的“空瓶”"),
					mc(87, 1, "指出硬盘需要修复", "提示硬盘有可用空间", "告诉你别用这个硬盘", "提醒用户硬盘有病毒"),
					mc(88, 2, "更新数据", "恢复电脑出厂设置", "恢复被删除的文件", "对数据进行分类处理"),
					mc(89, 1, "害怕误删", "提高工作效率", "方便查找存储记录", "防止关键信息丢失"),
					mc(90, 2, "垃圾文件要定期清理", "电脑有自我保护的功能", "文件不会轻易被彻底删除", "电脑运行速度与硬盘有关"),
				},
			},
			{
				ID:           "writing",
				Title:        "书写 (Writing)",
				Instructions: "第一部分: 第 91-98 题: 完成句子。\n第二部分: 第 99-100 题: 写短文。",
				Questions: []models.ExamQuestion{
					ordering(91, "录取结果将在月底公布。", "结果将在", "公布", "月底", "录取"),
					ordering(92, "他承认自己缺乏自信。", "他", "自信", "承认自己", "缺乏"),
					ordering(93, "打折商品不再参加其他优惠活动。", "参加其他优惠", "打折商品", "活动", "不再"),
					ordering(94, "汽油的价格又上涨了。", "汽油的", "上涨", "价格", "又", "了"),
					ordering(95, "这两家公司的待遇差别很大。", "这两家", "差别", "公司的待遇", "很大"),
					ordering(96, "那个小姑娘非常孝顺。", "小姑娘", "非常", "那个", "孝顺"),
					ordering(97, "请在前台办理入住手续。", "请在", "办理入住", "手续", "前台"),
					ordering(98, "这里还保留着一些古老的风俗习惯。", "风俗习惯", "保留着一些古老", "这里还", "的"),
					writing(99, "请结合下列词语，写一篇 80 字左右的短文: 博物馆 保存 讲解员 丰富 值得"),
					writing(100, "请结合这张图片写一篇 80 字左右的短文。"),
				},
			},
		},
	}
}
