package dataset

import "github.com/K0NGR3SS/fraudprobe/internal/models"

var examples = []models.Sample{
	{Text: "客服您好我收到一条短信说我的账户有异常需要点击链接修改密码", Label: models.LabelFraud},
	{Text: "恭喜您中奖了请点击链接领取奖品需要提供您的银行卡信息", Label: models.LabelFraud},
	{Text: "我们是公安局您的账户涉嫌洗钱请配合调查点击链接下载安全软件", Label: models.LabelFraud},
	{Text: "您的快递已经发货单号是SF123456预计明天送达请注意查收", Label: models.LabelNormal},
	{Text: "客服您好我想查询一下我的订单状态订单号是2023123456", Label: models.LabelNormal},
	{Text: "感谢您的咨询如果还有其他问题请随时联系我们祝您生活愉快", Label: models.LabelNormal},
}

// Examples returns the built-in dataset used when no file can be loaded.
func Examples() []models.Sample {
	out := make([]models.Sample, len(examples))
	for i, s := range examples {
		s.Source = models.SourceExample
		out[i] = s
	}
	return out
}

// Stats counts fraud and normal samples.
func Stats(samples []models.Sample) (fraud, normal int) {
	for _, s := range samples {
		if s.Label == models.LabelFraud {
			fraud++
		}
	}
	return fraud, len(samples) - fraud
}
